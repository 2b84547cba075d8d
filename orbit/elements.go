package orbit

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"

	"github.com/lixenwraith/gravpath/vmath"
)

// keplerPlaces is the decimal precision requested from the Newton solver
const keplerPlaces = 12

// Elements describes a planar Kepler orbit around a parent attractor
// Periapsis/Apoapsis: closest/farthest distance from the parent
// Angle: argument of periapsis in radians, measured from +X
// Clockwise: direction of travel in the plane
// Phase: mean anomaly at t = 0 in radians
// Mu: gravitational parameter of the parent (G*M), filled by the scene builder
type Elements struct {
	Periapsis float64
	Apoapsis  float64
	Angle     float64
	Clockwise bool
	Phase     float64
	Mu        float64
}

// Validate checks the elements describe a bound ellipse
func (e Elements) Validate() error {
	if e.Periapsis <= 0 {
		return fmt.Errorf("periapsis must be positive, got %g", e.Periapsis)
	}
	if e.Apoapsis < e.Periapsis {
		return fmt.Errorf("apoapsis %g below periapsis %g", e.Apoapsis, e.Periapsis)
	}
	if e.Mu <= 0 {
		return fmt.Errorf("gravitational parameter must be positive, got %g", e.Mu)
	}
	return nil
}

// SemiMajorAxis returns a = (rp + ra) / 2
func (e Elements) SemiMajorAxis() float64 {
	return (e.Periapsis + e.Apoapsis) / 2
}

// Eccentricity returns e = (ra - rp) / (ra + rp)
func (e Elements) Eccentricity() float64 {
	return (e.Apoapsis - e.Periapsis) / (e.Apoapsis + e.Periapsis)
}

// MeanMotion returns n = sqrt(mu / a^3) in radians per time unit
func (e Elements) MeanMotion() float64 {
	a := e.SemiMajorAxis()
	return math.Sqrt(e.Mu / (a * a * a))
}

// Period returns the closed-form orbital period
func (e Elements) Period() float64 {
	return 2 * math.Pi / e.MeanMotion()
}

// State returns position and velocity relative to the parent at time t
func (e Elements) State(t float64) (pos, vel mgl64.Vec3) {
	a := e.SemiMajorAxis()
	ecc := e.Eccentricity()
	n := e.MeanMotion()

	m := e.Phase + n*t
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	ea := eccentricAnomaly(ecc, m)
	sinE, cosE := math.Sincos(ea)
	b := a * math.Sqrt(1-ecc*ecc)

	// dE/dt from differentiating Kepler's equation
	eDot := n / (1 - ecc*cosE)

	pos = vmath.Vec2(a*(cosE-ecc), b*sinE)
	vel = vmath.Vec2(-a*sinE*eDot, b*cosE*eDot)

	if e.Clockwise {
		pos[1] = -pos[1]
		vel[1] = -vel[1]
	}

	return vmath.Rotate(pos, e.Angle), vmath.Rotate(vel, e.Angle)
}

// eccentricAnomaly solves Kepler's equation M = E - e sin E
// Newton iteration first, binary search when Newton fails to converge
func eccentricAnomaly(ecc, m float64) float64 {
	if ecc == 0 {
		return m
	}
	ea, err := kepler.Kepler2b(ecc, unit.Angle(m), keplerPlaces)
	if err != nil {
		return kepler.Kepler3(ecc, unit.Angle(m)).Rad()
	}
	return ea.Rad()
}
