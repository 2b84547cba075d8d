package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Simulation plane is XY, Z is always zero for stored samples

// Flatten projects v onto the simulation plane
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], 0}
}

// Vec2 builds a plane vector
func Vec2(x, y float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, 0}
}

// IsZero reports whether every component is exactly zero
func IsZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Normalize returns the unit vector and the original magnitude, zero-safe
// mgl64.Vec3.Normalize divides by zero on a zero vector, this does not
func Normalize(v mgl64.Vec3) (mgl64.Vec3, float64) {
	mag := v.Len()
	if mag == 0 {
		return mgl64.Vec3{}, 0
	}
	inv := 1.0 / mag
	return mgl64.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, mag
}

// Perpendicular rotates a plane vector 90 degrees counter-clockwise
func Perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{-v[1], v[0], 0}
}

// Rotate rotates a plane vector by angle radians counter-clockwise
func Rotate(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	sin, cos := math.Sincos(angle)
	return mgl64.Vec3{
		v[0]*cos - v[1]*sin,
		v[0]*sin + v[1]*cos,
		0,
	}
}

// CircularSpeed returns the tangential speed of a circular orbit
// mu: gravitational parameter of the attractor (G*M)
func CircularSpeed(mu, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Sqrt(mu / radius)
}

// CircularVelocity returns the velocity for circular orbit insertion at
// offset from the attractor, counter-clockwise unless clockwise is set
func CircularVelocity(offset mgl64.Vec3, mu float64, clockwise bool) mgl64.Vec3 {
	dir, radius := Normalize(Flatten(offset))
	if radius == 0 {
		return mgl64.Vec3{}
	}
	tangent := Perpendicular(dir)
	if clockwise {
		tangent = tangent.Mul(-1)
	}
	return tangent.Mul(CircularSpeed(mu, radius))
}

// CircularPeriod returns the closed-form period of a circular orbit
func CircularPeriod(mu, radius float64) float64 {
	return 2 * math.Pi * math.Sqrt(radius*radius*radius/mu)
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}
