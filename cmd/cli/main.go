// Command citytraffic drives a traffic simulation from the command line:
// run a fixed number of ticks and print the resulting state, serve the
// HTTP/WS boundary, or validate a map file before loading it.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tms-sim/citytraffic/internal/boundary"
	"github.com/tms-sim/citytraffic/internal/config"
	"github.com/tms-sim/citytraffic/internal/httpapi"
	"github.com/tms-sim/citytraffic/internal/mapfile"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "citytraffic",
		Short: "Continuous-time multi-agent traffic microsimulator",
	}
	root.AddCommand(runCmd(), serveCmd(), validateMapCmd())
	return root
}

func runCmd() *cobra.Command {
	var (
		mapName string
		ticks   int
		seed    int64
		spawn   int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a fixed number of ticks and print the final state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Seed = seed

			log := logrus.New()
			b, err := boundary.New(cfg, mapName, log)
			if err != nil {
				return err
			}

			if spawn > 0 {
				b.SpawnMultiple(spawn, nil)
			}

			var state any
			for i := 0; i < ticks; i++ {
				state, err = b.Tick()
				if err != nil {
					return err
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "simple", "registered map name")
	cmd.Flags().IntVar(&ticks, "ticks", 100, "number of ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	cmd.Flags().IntVar(&spawn, "spawn", 0, "vehicles to spawn before ticking")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		mapName string
		addr    string
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP/WebSocket boundary over the running simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			cfg.Seed = seed

			log := logrus.New()
			b, err := boundary.New(cfg, mapName, log)
			if err != nil {
				return err
			}
			return httpapi.Serve(b, addr, log)
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "simple", "registered map name")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	return cmd
}

func validateMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-map [name]",
		Short: "Load a registered map and report node/edge counts, or fail with the load error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := mapfile.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("map %q: %d nodes, %d edges\n", args[0], len(g.Nodes()), len(g.Edges()))
			return nil
		},
	}
	return cmd
}
