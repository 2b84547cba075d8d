//go:build wasm

package engine

// DefaultGenerationMode time-slices predictions on the tick goroutine
// WASM has no parallel threads, a worker would only steal the tick's time
const DefaultGenerationMode = GenerateSliced
