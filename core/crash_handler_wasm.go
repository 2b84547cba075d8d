//go:build wasm

package core

import (
	"log"
	"runtime/debug"
)

// HandleCrash logs and re-panics (no os.Exit in WASM)
func HandleCrash(r any) {
	if r == nil {
		return
	}

	runCrashHooks()

	log.Printf("CRASH: %v\nStack:\n%s", r, debug.Stack())

	// Re-panic to halt goroutine; browser dev tools show error
	panic(r)
}
