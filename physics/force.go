package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ForceInfo is the per-source gravity breakdown at one point and time
// Forces are accelerations on a unit-mass body
// Valid is false when the field has no sources; callers treat that as free motion
type ForceInfo struct {
	Valid bool

	Positions  []mgl64.Vec3
	Velocities []mgl64.Vec3
	Forces     []mgl64.Vec3

	TotalForce         mgl64.Vec3
	RescaledTotalForce mgl64.Vec3

	PrimaryIndex int
}

// Primary returns the dominant source, NoSource if invalid
func (fi *ForceInfo) Primary() SourceID {
	if !fi.Valid {
		return NoSource
	}
	return SourceID(fi.PrimaryIndex)
}

// PrimaryMagnitude returns |Forces[PrimaryIndex]|, 0 if invalid
func (fi *ForceInfo) PrimaryMagnitude() float64 {
	if !fi.Valid {
		return 0
	}
	return fi.Forces[fi.PrimaryIndex].Len()
}

// CalculateForce evaluates every source at time and position
// Sources outside the primary's ancestor chain are damped:
// scaled = max * (mag/max)^rescaling, direction preserved
// rescaling == 1 leaves RescaledTotalForce identical to TotalForce
func (f *Field) CalculateForce(time float64, position mgl64.Vec3, g, rescaling float64) ForceInfo {
	n := f.Len()
	if n == 0 {
		return ForceInfo{PrimaryIndex: int(NoSource)}
	}

	states := f.SourceStates(time)
	fi := ForceInfo{
		Valid:        true,
		Positions:    make([]mgl64.Vec3, n),
		Velocities:   make([]mgl64.Vec3, n),
		Forces:       make([]mgl64.Vec3, n),
		PrimaryIndex: 0,
	}
	mags := make([]float64, n)
	maxMag := -1.0

	for i := range f.sources {
		fi.Positions[i] = states[i].Position
		fi.Velocities[i] = states[i].Velocity

		delta := states[i].Position.Sub(position)
		distSq := delta.LenSqr()
		if distSq > 0 {
			dist := math.Sqrt(distSq)
			// G*m/d^2 along delta/d
			fi.Forces[i] = delta.Mul(g * f.sources[i].Mass / (distSq * dist))
		}

		mags[i] = fi.Forces[i].Len()
		fi.TotalForce = fi.TotalForce.Add(fi.Forces[i])

		if mags[i] > maxMag {
			maxMag = mags[i]
			fi.PrimaryIndex = i
		}
	}

	if rescaling == 1 || maxMag <= 0 {
		fi.RescaledTotalForce = fi.TotalForce
		return fi
	}

	inChain := make([]bool, n)
	for _, id := range f.Ancestors(SourceID(fi.PrimaryIndex)) {
		inChain[id] = true
	}

	for i := range fi.Forces {
		if inChain[i] || mags[i] == 0 {
			fi.RescaledTotalForce = fi.RescaledTotalForce.Add(fi.Forces[i])
			continue
		}
		scaled := maxMag * math.Pow(mags[i]/maxMag, rescaling)
		fi.RescaledTotalForce = fi.RescaledTotalForce.Add(fi.Forces[i].Mul(scaled / mags[i]))
	}

	return fi
}
