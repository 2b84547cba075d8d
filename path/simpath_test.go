package path

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/physics"
)

func TestMergeSOIsJoinsBoundary(t *testing.T) {
	a := []SOI{
		{Source: 0, StartTick: 0, EndTick: 64, MaxForceMagnitude: 1, MaxForceTick: 10},
		{Source: 1, StartTick: 72, EndTick: 128, MaxForceMagnitude: 2, MaxForceTick: 100},
	}
	b := []SOI{
		{Source: 1, StartTick: 128, EndTick: 200, MaxForceMagnitude: 5, MaxForceTick: 150},
		{Source: 0, StartTick: 208, EndTick: 256, MaxForceMagnitude: 1, MaxForceTick: 208},
	}

	out := mergeSOIs(a, b)
	require.Len(t, out, 3)
	assert.Equal(t, int64(72), out[1].StartTick)
	assert.Equal(t, int64(200), out[1].EndTick)
	assert.Equal(t, 5.0, out[1].MaxForceMagnitude)
	assert.Equal(t, int64(150), out[1].MaxForceTick)

	// Inputs untouched
	assert.Equal(t, int64(128), a[1].EndTick)
	assert.Equal(t, 2.0, a[1].MaxForceMagnitude)
}

func TestMergeSOIsDistinctSources(t *testing.T) {
	a := []SOI{{Source: 0, StartTick: 0, EndTick: 8}}
	b := []SOI{{Source: 1, StartTick: 8, EndTick: 16}}
	assert.Len(t, mergeSOIs(a, b), 2)
	assert.Len(t, mergeSOIs(nil, b), 1)
	assert.Len(t, mergeSOIs(a, nil), 1)
}

func TestSOIAt(t *testing.T) {
	p := &SimPath{SOIs: []SOI{
		{Source: 0, StartTick: 0, EndTick: 56},
		{Source: 1, StartTick: 64, EndTick: 128},
	}}

	soi, ok := p.SOIAt(10)
	require.True(t, ok)
	assert.Equal(t, physics.SourceID(0), soi.Source)

	// Between samples the earlier interval holds
	soi, ok = p.SOIAt(60)
	require.True(t, ok)
	assert.Equal(t, physics.SourceID(0), soi.Source)

	soi, ok = p.SOIAt(128)
	require.True(t, ok)
	assert.Equal(t, physics.SourceID(1), soi.Source)

	_, ok = p.SOIAt(129)
	assert.False(t, ok)
	_, ok = p.SOIAt(-1)
	assert.False(t, ok)
}

func TestSimPathTrimStart(t *testing.T) {
	p := NewSimPath(0, 8, 1)
	for i := 0; i < 5; i++ {
		pos := mgl64.Vec3{float64(i), 0, 0}
		p.Absolute.Add(pos, mgl64.Vec3{})
		p.Relative[0].Add(pos, mgl64.Vec3{})
	}
	p.SOIs = []SOI{
		{Source: 0, StartTick: 0, EndTick: 8},
		{Source: 0, StartTick: 16, EndTick: 32},
	}

	p.TrimStart(17)
	assert.Equal(t, int64(16), p.StartTick())
	assert.Equal(t, int64(16), p.Relative[0].StartTick)
	require.Len(t, p.SOIs, 1)
	assert.Equal(t, int64(16), p.SOIs[0].StartTick)
}

func TestSimPathAppendRelativeMismatch(t *testing.T) {
	a := NewSimPath(0, 8, 2)
	b := NewSimPath(0, 8, 1)
	assert.Panics(t, func() { a.Append(b) })
}

func TestSimPathCloneIndependent(t *testing.T) {
	p := NewSimPath(0, 8, 1)
	p.Absolute.Add(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
	p.SOIs = []SOI{{Source: 0}}

	c := p.Clone()
	c.Absolute.Add(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{})
	c.SOIs[0].EndTick = 99

	assert.Equal(t, 1, p.Absolute.Len())
	assert.Equal(t, int64(0), p.SOIs[0].EndTick)
	assert.Equal(t, physics.NoSource, c.CrashSource)
}
