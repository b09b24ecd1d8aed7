package boundary

import (
	"encoding/json"

	"github.com/tms-sim/citytraffic/internal/config"
)

// RunRequest describes a stand-alone, stateless simulation run: load a map,
// optionally seed it with vehicles, then tick it forward a fixed number of
// times. It is the contract used by callers that can't hold a live
// Boundary across calls, such as the WASM build.
type RunRequest struct {
	Map          string             `json:"map"`
	Seed         int64              `json:"seed"`
	Ticks        int                `json:"ticks"`
	Spawn        int                `json:"spawn"`
	Distribution map[string]float64 `json:"distribution,omitempty"`
}

// RunResult is the outcome of a RunJSON call: every per-tick snapshot,
// in order, so a caller can animate the run rather than see only the end
// state.
type RunResult struct {
	Snapshots []StateSnapshot `json:"snapshots"`
}

// RunJSON decodes a RunRequest, runs it to completion against a fresh
// in-memory Boundary, and returns the JSON-encoded RunResult. Errors from
// loading the map or ticking are reported as a JSON object with an "error"
// field rather than a Go error, so callers across a WASM boundary can
// handle them without a second marshaling step; a request that is not
// valid JSON is returned as a Go error.
func RunJSON(input string) (string, error) {
	var req RunRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", err
	}

	cfg := config.Default()
	cfg.Seed = req.Seed

	mapName := req.Map
	if mapName == "" {
		mapName = "simple"
	}

	b, err := New(cfg, mapName, nil)
	if err != nil {
		return marshalRunError(err)
	}
	if req.Spawn > 0 {
		b.SpawnMultiple(req.Spawn, req.Distribution)
	}

	result := RunResult{Snapshots: make([]StateSnapshot, 0, req.Ticks)}
	for i := 0; i < req.Ticks; i++ {
		state, err := b.Tick()
		if err != nil {
			return marshalRunError(err)
		}
		result.Snapshots = append(result.Snapshots, state)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func marshalRunError(err error) (string, error) {
	out, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(out), nil
}
