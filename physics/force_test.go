package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/orbit"
)

// fixedSystem builds sun -> planet -> moon with every body pinned in place
func fixedSystem(t *testing.T) *Field {
	t.Helper()
	f, err := NewField([]GravitySource{
		{Name: "sun", Mass: 10000, Radius: 10, Parent: NoSource, OrbitIndex: NoOrbit, Position: mgl64.Vec3{-1000, 0, 0}},
		{Name: "planet", Mass: 100, Radius: 2, Parent: 0, OrbitIndex: NoOrbit, Position: mgl64.Vec3{0, 0, 0}},
		{Name: "moon", Mass: 1, Radius: 0.2, Parent: 1, OrbitIndex: NoOrbit, Position: mgl64.Vec3{10, 0, 0}},
	}, nil)
	require.NoError(t, err)
	return f
}

func TestCalculateForceNoSources(t *testing.T) {
	f, err := NewField(nil, nil)
	require.NoError(t, err)

	fi := f.CalculateForce(0, mgl64.Vec3{1, 2, 0}, 1, 2)
	assert.False(t, fi.Valid)
	assert.Nil(t, fi.Forces)
	assert.Equal(t, NoSource, fi.Primary())
	assert.Equal(t, 0.0, fi.PrimaryMagnitude())
	assert.Equal(t, mgl64.Vec3{}, fi.RescaledTotalForce)
}

func TestCalculateForceNewtonian(t *testing.T) {
	f := fixedSystem(t)
	pos := mgl64.Vec3{0, 20, 0}
	fi := f.CalculateForce(0, pos, 2, 1)
	require.True(t, fi.Valid)
	require.Len(t, fi.Forces, 3)

	// Planet pulls straight down with G*m/d^2
	planet := fi.Forces[1]
	assert.InDelta(t, 0, planet.X(), 1e-15)
	assert.InDelta(t, -2*100.0/400, planet.Y(), 1e-12)
}

func TestMoonIsPrimaryNearMoon(t *testing.T) {
	f := fixedSystem(t)
	fi := f.CalculateForce(0, mgl64.Vec3{10.5, 0, 0}, 1, 2)

	assert.Equal(t, SourceID(2), fi.Primary())
	assert.InDelta(t, 4.0, fi.PrimaryMagnitude(), 1e-12)
	assert.Equal(t, []SourceID{2, 1, 0}, f.Ancestors(2))
}

func TestOrbitingMoonIsPrimary(t *testing.T) {
	// Moon on an elliptical orbit around a fixed planet, under a fixed sun
	h, err := orbit.NewHierarchy([]orbit.Node{{
		Elements: orbit.Elements{Periapsis: 10, Apoapsis: 12, Angle: 0.3, Phase: 1, Mu: 100},
		Parent:   orbit.NoParent,
	}})
	require.NoError(t, err)

	f, err := NewField([]GravitySource{
		{Name: "sun", Mass: 10000, Radius: 10, Parent: NoSource, OrbitIndex: NoOrbit, Position: mgl64.Vec3{-1000, 0, 0}},
		{Name: "planet", Mass: 100, Radius: 2, Parent: 0, OrbitIndex: NoOrbit},
		{Name: "moon", Mass: 1, Radius: 0.2, Parent: 1, OrbitIndex: 0},
	}, h)
	require.NoError(t, err)

	const at = 3.7
	start := f.SourceStates(0)[2].Position
	moon := f.SourceStates(at)[2]
	require.Greater(t, moon.Position.Sub(start).Len(), 1.0)
	assert.NotEqual(t, mgl64.Vec3{}, moon.Velocity)

	// Just outside the moon, radially away from the planet
	out := moon.Position.Normalize().Mul(0.5)
	pos := moon.Position.Add(out)

	fi := f.CalculateForce(at, pos, 1, 8)
	require.True(t, fi.Valid)
	assert.Equal(t, SourceID(2), fi.Primary())
	assert.InDelta(t, 4.0, fi.PrimaryMagnitude(), 1e-9)
	assert.Equal(t, moon.Position, fi.Positions[2])

	// Sun and planet are both ancestors of the moon, nothing is damped
	assert.Equal(t, fi.TotalForce, fi.RescaledTotalForce)
}

func TestRescalingOneIsIdentity(t *testing.T) {
	f := fixedSystem(t)
	for _, pos := range []mgl64.Vec3{{10.5, 0, 0}, {0, 30, 0}, {-900, 50, 0}, {500, -500, 0}} {
		fi := f.CalculateForce(0, pos, 1, 1)
		assert.Equal(t, fi.TotalForce, fi.RescaledTotalForce)
	}
}

func TestRescalingDampsNonAncestors(t *testing.T) {
	// Two roots: a heavy star and a lone light rock, no common chain
	f, err := NewField([]GravitySource{
		{Name: "star", Mass: 100, Radius: 1, Parent: NoSource, OrbitIndex: NoOrbit, Position: mgl64.Vec3{0, 0, 0}},
		{Name: "rock", Mass: 1, Radius: 0.1, Parent: NoSource, OrbitIndex: NoOrbit, Position: mgl64.Vec3{20, 0, 0}},
	}, nil)
	require.NoError(t, err)

	pos := mgl64.Vec3{10, 0, 0}
	fi := f.CalculateForce(0, pos, 1, 2)
	require.Equal(t, SourceID(0), fi.Primary())

	star := fi.Forces[0].Len() // 1
	rock := fi.Forces[1].Len() // 0.01
	scaled := star * math.Pow(rock/star, 2)

	want := fi.Forces[0].Add(fi.Forces[1].Mul(scaled / rock))
	assert.InDelta(t, want.X(), fi.RescaledTotalForce.X(), 1e-15)
	assert.Less(t, math.Abs(fi.RescaledTotalForce.X()), math.Abs(fi.Forces[0].X()))
	assert.Greater(t, math.Abs(fi.RescaledTotalForce.X()), math.Abs(fi.TotalForce.X()))
}

func TestRescalingKeepsAncestorChain(t *testing.T) {
	f := fixedSystem(t)
	fi := f.CalculateForce(0, mgl64.Vec3{10.5, 0, 0}, 1, 3)

	// Moon is primary and planet/sun are its ancestors, nothing is damped
	assert.Equal(t, fi.TotalForce, fi.RescaledTotalForce)
}

func TestCalculateForceAtSourceCenter(t *testing.T) {
	f := fixedSystem(t)
	fi := f.CalculateForce(0, mgl64.Vec3{0, 0, 0}, 1, 2)
	assert.Equal(t, mgl64.Vec3{}, fi.Forces[1])
	assert.False(t, math.IsNaN(fi.RescaledTotalForce.X()))
}

func TestNewFieldValidation(t *testing.T) {
	_, err := NewField([]GravitySource{
		{Name: "child", Mass: 1, Parent: 1, OrbitIndex: NoOrbit},
		{Name: "parent", Mass: 1, Parent: NoSource, OrbitIndex: NoOrbit},
	}, nil)
	assert.Error(t, err)

	_, err = NewField([]GravitySource{
		{Name: "orbiting", Mass: 1, Parent: NoSource, OrbitIndex: 0},
	}, nil)
	assert.Error(t, err)

	_, err = NewField([]GravitySource{
		{Name: "negative", Mass: -1, Parent: NoSource, OrbitIndex: NoOrbit},
	}, nil)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	f := fixedSystem(t)
	id, ok := f.Lookup("planet")
	assert.True(t, ok)
	assert.Equal(t, SourceID(1), id)

	_, ok = f.Lookup("pluto")
	assert.False(t, ok)
}
