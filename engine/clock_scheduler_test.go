package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/parameter"
)

func TestClockSchedulerWarp(t *testing.T) {
	sim := NewSimulation(slicedOptions(0))
	cs, updateDone := NewClockScheduler(sim, parameter.TickInterval)
	assert.Equal(t, 1, cs.Warp())

	assert.Equal(t, int64(1), cs.Advance())

	cs.SetWarp(4)
	assert.Equal(t, int64(5), cs.Advance())
	assert.Equal(t, int64(5), sim.Tick())
	assert.Equal(t, uint64(2), cs.Intervals())
	assert.Equal(t, int64(4), sim.Status().Ints.Get("engine.warp").Load())

	// Buffered signal, never blocks the scheduler
	select {
	case <-updateDone:
	default:
		t.Fatal("expected interval signal")
	}

	cs.SetWarp(0)
	assert.Equal(t, 1, cs.Warp())
	cs.SetWarp(10 * parameter.MaxWarp)
	assert.Equal(t, parameter.MaxWarp, cs.Warp())
}

func TestClockSchedulerRunsAndStops(t *testing.T) {
	opts := slicedOptions(0)
	opts.Time = NewMonotonicTimeProvider()
	sim := NewSimulation(opts)
	cs, _ := NewClockScheduler(sim, time.Millisecond)

	cs.Start()
	cs.Start() // Idempotent

	require.Eventually(t, func() bool { return sim.Tick() >= 5 }, 5*time.Second, time.Millisecond)

	cs.Pause()
	assert.True(t, cs.IsPaused())
	// Let an in-flight interval finish before sampling
	time.Sleep(10 * time.Millisecond)
	paused := sim.Tick()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, sim.Tick())

	cs.Resume()
	assert.False(t, cs.IsPaused())
	require.Eventually(t, func() bool { return sim.Tick() > paused }, 5*time.Second, time.Millisecond)

	cs.Stop()
	cs.Stop() // Idempotent
	stopped := sim.Tick()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, sim.Tick())
}

func TestClockSchedulerFollowsTimeProvider(t *testing.T) {
	const interval = 5 * time.Millisecond
	opts := slicedOptions(0)
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opts.Time = mock
	sim := NewSimulation(opts)

	cs, _ := NewClockScheduler(sim, interval)
	cs.Start()
	defer cs.Stop()

	// Frozen clock, the first deadline is never reached
	time.Sleep(4 * interval)
	assert.Equal(t, int64(0), sim.Tick())

	mock.Advance(interval)
	require.Eventually(t, func() bool { return sim.Tick() == 1 }, 5*time.Second, time.Millisecond)
	time.Sleep(4 * interval)
	assert.Equal(t, int64(1), sim.Tick())

	// Falling further behind than MaxTicksBehind resets the deadline instead of catching up
	mock.Advance(10 * interval)
	require.Eventually(t, func() bool { return sim.Tick() == 2 }, 5*time.Second, time.Millisecond)
	time.Sleep(4 * interval)
	assert.Equal(t, int64(2), sim.Tick())

	mock.Advance(interval)
	require.Eventually(t, func() bool { return sim.Tick() == 3 }, 5*time.Second, time.Millisecond)
}
