// Package mapfile loads the declarative JSON map format and exposes a
// small named registry of maps embedded into the binary.
package mapfile

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tms-sim/citytraffic/internal/graph"
)

//go:embed maps/*.json
var embedded embed.FS

// names lists the registry in a fixed, documented order; Names() returns
// them sorted for a stable wire response.
var names = []string{"simple", "city", "nust"}

// Names returns the sorted list of registered map names.
func Names() []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// Exists reports whether name is a registered map.
func Exists(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// LoadData reads and parses the named map's raw GraphData, without
// building a graph.Graph from it.
func LoadData(name string) (graph.GraphData, error) {
	if !Exists(name) {
		return graph.GraphData{}, fmt.Errorf("validation: unknown map %q", name)
	}
	raw, err := embedded.ReadFile(fmt.Sprintf("maps/%s.json", name))
	if err != nil {
		return graph.GraphData{}, fmt.Errorf("map %q: %w", name, err)
	}
	var data graph.GraphData
	if err := json.Unmarshal(raw, &data); err != nil {
		return graph.GraphData{}, fmt.Errorf("map %q: malformed json: %w", name, err)
	}
	return data, nil
}

// Load reads the named map and builds a graph.Graph from it.
func Load(name string) (*graph.Graph, error) {
	data, err := LoadData(name)
	if err != nil {
		return nil, err
	}
	g, err := graph.NewGraph(data)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", name, err)
	}
	return g, nil
}
