package path

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/physics"
)

// SOI is a tick interval during which one gravity source is primary
// EndTick is the last sampled tick inside the interval
type SOI struct {
	Source            physics.SourceID
	StartTick         int64
	EndTick           int64
	MaxForceMagnitude float64
	MaxForceTick      int64
	MaxForcePosition  mgl64.Vec3
}

// Contains reports whether tick falls inside [StartTick, EndTick]
func (s SOI) Contains(tick int64) bool {
	return tick >= s.StartTick && tick <= s.EndTick
}

// mergeSOIs stitches b after a into a fresh slice
// A boundary interval on the same source is joined, keeping the stronger max-force record
func mergeSOIs(a, b []SOI) []SOI {
	out := make([]SOI, 0, len(a)+len(b))
	out = append(out, a...)
	if len(b) == 0 {
		return out
	}
	if len(out) == 0 {
		return append(out, b...)
	}

	last := &out[len(out)-1]
	first := b[0]
	if last.Source != first.Source {
		return append(out, b...)
	}

	last.EndTick = first.EndTick
	if first.MaxForceMagnitude > last.MaxForceMagnitude {
		last.MaxForceMagnitude = first.MaxForceMagnitude
		last.MaxForceTick = first.MaxForceTick
		last.MaxForcePosition = first.MaxForcePosition
	}
	return append(out, b[1:]...)
}

// soiAt returns the interval covering tick
// Between two sampled intervals the earlier one is reported until the next starts
func soiAt(sois []SOI, tick int64) (SOI, bool) {
	for i := len(sois) - 1; i >= 0; i-- {
		if sois[i].StartTick <= tick {
			if tick > sois[i].EndTick && i == len(sois)-1 {
				return SOI{}, false
			}
			return sois[i], true
		}
	}
	return SOI{}, false
}
