package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/orbit"
	"github.com/lixenwraith/gravpath/physics"
)

// testScene is a fixed star with a planet and its moon
func testScene() []*SceneNode {
	return []*SceneNode{{
		Name:     "star",
		Mass:     1000,
		Radius:   5,
		Position: mgl64.Vec3{10, 10, 0},
		Children: []*SceneNode{{
			Name:   "planet",
			Mass:   10,
			Radius: 1,
			Orbit:  &orbit.Elements{Periapsis: 80, Apoapsis: 80},
			Children: []*SceneNode{{
				Name:   "moon",
				Mass:   0.5,
				Radius: 0.2,
				Orbit:  &orbit.Elements{Periapsis: 6, Apoapsis: 7, Phase: 1},
			}},
		}},
	}}
}

func TestFlattenSceneOrder(t *testing.T) {
	sources, nodes, err := FlattenScene(testScene(), 2)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.Len(t, nodes, 2)

	assert.Equal(t, physics.NoSource, sources[0].Parent)
	assert.Equal(t, physics.NoOrbit, sources[0].OrbitIndex)
	assert.Equal(t, physics.SourceID(0), sources[1].Parent)
	assert.Equal(t, physics.SourceID(1), sources[2].Parent)

	// Planet orbits the fixed star position, moon composes on the planet orbit
	assert.Equal(t, orbit.NoParent, nodes[0].Parent)
	assert.Equal(t, mgl64.Vec3{10, 10, 0}, nodes[0].Origin)
	assert.Equal(t, 2*1000.0, nodes[0].Elements.Mu)
	assert.Equal(t, 0, nodes[1].Parent)
	assert.Equal(t, 2*10.0, nodes[1].Elements.Mu)
}

func TestFlattenSceneOrbitNeedsParent(t *testing.T) {
	_, _, err := FlattenScene([]*SceneNode{{
		Name:  "rogue",
		Mass:  1,
		Orbit: &orbit.Elements{Periapsis: 1, Apoapsis: 1},
	}}, 1)
	assert.Error(t, err)
}

func TestBuildFieldStates(t *testing.T) {
	f, err := BuildField(testScene(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())

	states := f.SourceStates(3)
	assert.Equal(t, mgl64.Vec3{10, 10, 0}, states[0].Position)
	assert.InDelta(t, 80, states[1].Position.Sub(states[0].Position).Len(), 1e-9)

	moonOffset := states[2].Position.Sub(states[1].Position).Len()
	assert.GreaterOrEqual(t, moonOffset, 6-1e-9)
	assert.LessOrEqual(t, moonOffset, 7+1e-9)
}
