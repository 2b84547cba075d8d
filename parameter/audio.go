package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Crash Alert: falling two-tone
const (
	CrashToneHigh     = 880.0
	CrashToneLow      = 440.0
	CrashNoteDuration = 180 * time.Millisecond
	CrashAttack       = 5 * time.Millisecond
	CrashRelease      = 60 * time.Millisecond
	CrashVolume       = 0.6
)

// Impact Warning: short ping when the predicted crash is close
const (
	WarningTone     = 1320.0
	WarningDuration = 60 * time.Millisecond
	WarningAttack   = 2 * time.Millisecond
	WarningRelease  = 30 * time.Millisecond
	WarningVolume   = 0.3

	// WarningTicks is how far ahead of a predicted crash the ping starts
	WarningTicks = 256
)
