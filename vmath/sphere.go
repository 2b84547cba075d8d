package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SegmentSphere intersects the segment origin→origin+move with a sphere
// Returns t normalized to [0,1] along the segment for the entry point
// A segment starting inside the sphere hits at t = 0
func SegmentSphere(origin, move, center mgl64.Vec3, radius float64) (t float64, hit bool) {
	rel := origin.Sub(center)
	c := rel.Dot(rel) - radius*radius
	if c <= 0 {
		return 0, true
	}

	a := move.Dot(move)
	if a == 0 {
		return 0, false
	}

	b := 2 * move.Dot(rel)
	// Moving away or tangent-parallel
	if b >= 0 {
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	t = (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
