//go:build !wasm

package core

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// HandleCrash is the unified panic handler: cleanup hooks, stack trace, exit
func HandleCrash(r any) {
	if r == nil {
		return
	}

	runCrashHooks()

	stack := debug.Stack()
	log.Printf("CRASH: %v\n%s", r, stack)

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", stack)

	os.Exit(1)
}
