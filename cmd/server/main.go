// Command traffic-server runs the HTTP/WebSocket boundary as a standalone
// process, for deployments that don't want the full CLI surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tms-sim/citytraffic/internal/boundary"
	"github.com/tms-sim/citytraffic/internal/config"
	"github.com/tms-sim/citytraffic/internal/httpapi"
)

func main() {
	mapName := flag.String("map", "simple", "registered map name")
	addr := flag.String("addr", ":8080", "listen address")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg := config.Default()
	cfg.Seed = *seed

	log := logrus.New()
	b, err := boundary.New(cfg, *mapName, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := httpapi.Serve(b, *addr, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
