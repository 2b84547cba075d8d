package engine

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/vmath"
)

var (
	_ TimeProvider = (*MonotonicTimeProvider)(nil)
	_ TimeProvider = MonotonicTimeProvider{}
)

func TestGenerationLatencyFromTimeProvider(t *testing.T) {
	opts := slicedOptions(1)
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opts.Time = mock
	sim := NewSimulation(opts)
	require.NoError(t, sim.DelayedInit(starOnly()))

	// 64 ticks at stride 32 is three slices: launched at tick 1, finished at tick 4
	pos := mgl64.Vec3{50, 0, 0}
	body := sim.CreateSectionedSimPath(pos, vmath.CircularVelocity(pos, 1000, false), 64, 0.5)
	sim.Register(body, ControllerFunc(func(tick int64, _ *SectionedSimPath) mgl64.Vec3 {
		mock.Advance(time.Duration(tick) * 10 * time.Millisecond)
		return mgl64.Vec3{}
	}))

	latency := sim.Status().Floats.Get("path.gen_ms_max")

	for i := 0; i < 3; i++ {
		sim.Advance()
	}
	assert.Equal(t, 0.0, latency.Get())
	assert.True(t, body.Generating())

	// Requested after the tick 1 advance, collected after ticks 2, 3 and 4
	sim.Advance()
	assert.Equal(t, StateFollowing, body.State())
	assert.InDelta(t, 90.0, latency.Get(), 1e-9)

	prev := latency.Get()
	for i := 0; i < 200; i++ {
		sim.Advance()
		cur := latency.Get()
		require.GreaterOrEqual(t, cur, prev, "tick %d", sim.Tick())
		prev = cur
	}
	// Later extensions run over longer mocked intervals
	assert.Greater(t, prev, 90.0)
	assert.Equal(t, int64(0), sim.Status().Ints.Get("path.discarded").Load())
}

func TestMockTimeProviderAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	assert.Equal(t, start, mock.Now())

	mock.Advance(250 * time.Millisecond)
	assert.Equal(t, start.Add(250*time.Millisecond), mock.Now())
}
