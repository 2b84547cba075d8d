package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/vmath"
)

// Intersect is the result of a swept-sphere test along one step
// T is normalized along the step, At is the contact point
type Intersect struct {
	Occurred bool
	At       mgl64.Vec3
	T        float64
	Source   SourceID
}

// NoIntersect is the sentinel for a clear step
var NoIntersect = Intersect{Source: NoSource}

// DetectCrash sweeps a body of collisionRadius along moveVector from previousPosition
// Each source is an inflated sphere (collisionRadius + source radius) at fi.Positions
// Earliest contact wins regardless of source hierarchy
func (f *Field) DetectCrash(fi *ForceInfo, previousPosition, moveVector mgl64.Vec3, collisionRadius float64) Intersect {
	if !fi.Valid {
		return NoIntersect
	}

	best := NoIntersect
	for i := range f.sources {
		radius := collisionRadius + f.sources[i].Radius
		t, hit := vmath.SegmentSphere(previousPosition, moveVector, fi.Positions[i], radius)
		if !hit {
			continue
		}
		if !best.Occurred || t < best.T {
			best = Intersect{
				Occurred: true,
				At:       previousPosition.Add(moveVector.Mul(t)),
				T:        t,
				Source:   SourceID(i),
			}
		}
	}
	return best
}
