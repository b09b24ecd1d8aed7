//go:build js && wasm

// Command wasm exposes the traffic simulator to the browser via
// WebAssembly. After loading, it registers a global JavaScript function:
//
//	runSimulation(jsonString) -> jsonString
//
// The input is a JSON-encoded boundary.RunRequest (map name, seed, tick
// count, initial spawn count) and the output is a JSON-encoded
// boundary.RunResult holding one snapshot per tick.
package main

import (
	"syscall/js"

	"github.com/tms-sim/citytraffic/internal/boundary"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := boundary.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
