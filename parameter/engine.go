package parameter

import "time"

// Simulation Clock Timing
const (
	// TickInterval is the wall-clock duration of one warp-1 clock interval (50 Hz)
	TickInterval = 20 * time.Millisecond

	// TickSeconds is the simulated time advanced per tick
	TickSeconds = 0.02

	// FrameUpdateInterval is the sandbox render interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxWarp caps the integer tick-rate multiplier
	MaxWarp = 64

	// MaxTicksBehind bounds catch-up before the scheduler resets its deadline
	MaxTicksBehind = 2
)
