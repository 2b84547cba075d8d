//go:build !wasm

package engine

// DefaultGenerationMode runs predictions on worker goroutines
const DefaultGenerationMode = GenerateAsync
