package vmath

import "github.com/go-gl/mathgl/mgl64"

// Lerp blends a toward b, t in [0,1]
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return mgl64.Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// Hermite evaluates the cubic Hermite spline between p0 and p1
// m0, m1: tangents already scaled to the segment length in time
// Endpoints return the control points unchanged
func Hermite(p0, m0, p1, m1 mgl64.Vec3, t float64) mgl64.Vec3 {
	if t == 0 {
		return p0
	}
	if t == 1 {
		return p1
	}

	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return mgl64.Vec3{
		h00*p0[0] + h10*m0[0] + h01*p1[0] + h11*m1[0],
		h00*p0[1] + h10*m0[1] + h01*p1[1] + h11*m1[1],
		h00*p0[2] + h10*m0[2] + h01*p1[2] + h11*m1[2],
	}
}
