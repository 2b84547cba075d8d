package orbit

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHierarchyOrdering(t *testing.T) {
	el := Elements{Periapsis: 1, Apoapsis: 1, Mu: 1}

	_, err := NewHierarchy([]Node{
		{Elements: el, Parent: 1},
		{Elements: el, Parent: NoParent},
	})
	assert.Error(t, err, "child before parent")

	_, err = NewHierarchy([]Node{{Elements: el, Parent: 0}})
	assert.Error(t, err, "self parent")

	_, err = NewHierarchy([]Node{{Elements: Elements{}, Parent: NoParent}})
	assert.Error(t, err, "invalid elements")

	h, err := NewHierarchy([]Node{
		{Elements: el, Parent: NoParent},
		{Elements: el, Parent: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())

	var nilH *Hierarchy
	assert.Equal(t, 0, nilH.Len())
}

func TestEvaluateComposesParents(t *testing.T) {
	planet := Elements{Periapsis: 100, Apoapsis: 100, Mu: 1000}
	moon := Elements{Periapsis: 5, Apoapsis: 5, Mu: 10, Phase: 0.4}
	origin := mgl64.Vec3{7, -3, 0}

	h, err := NewHierarchy([]Node{
		{Elements: planet, Parent: NoParent, Origin: origin},
		{Elements: moon, Parent: 0},
	})
	require.NoError(t, err)

	tm := 12.5
	out := h.Evaluate(tm, nil)
	require.Len(t, out, 2)

	pp, pv := planet.State(tm)
	mp, mv := moon.State(tm)
	assert.Equal(t, pp.Add(origin), out[0].Position)
	assert.Equal(t, pv, out[0].Velocity)
	assert.Equal(t, mp.Add(pp.Add(origin)), out[1].Position)
	assert.Equal(t, mv.Add(pv), out[1].Velocity)

	// Reuses a large enough buffer
	buf := make([]State, 4)
	reused := h.Evaluate(tm, buf)
	assert.Len(t, reused, 2)
	assert.Same(t, &buf[0], &reused[0])
}
