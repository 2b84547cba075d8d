package core

import "sync"

var (
	crashMu    sync.Mutex
	crashHooks []func()
)

// OnCrash registers a cleanup hook run before a crash is reported
// Typical use is restoring the terminal screen
func OnCrash(fn func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHooks = append(crashHooks, fn)
}

// runCrashHooks runs hooks newest first, a panicking hook does not stop the rest
func runCrashHooks() {
	crashMu.Lock()
	hooks := make([]func(), len(crashHooks))
	copy(hooks, crashHooks)
	crashMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		func() {
			defer func() { _ = recover() }()
			hooks[i]()
		}()
	}
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for worker goroutines
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
