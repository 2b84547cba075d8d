package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/gravpath/core"
	"github.com/lixenwraith/gravpath/parameter"
)

// ClockScheduler drives a Simulation on a fixed wall-clock interval
// Each interval runs warp simulation ticks; pause skips intervals without losing the deadline
type ClockScheduler struct {
	sim *Simulation

	// Tick configuration
	tickInterval     time.Duration
	nextTickDeadline time.Time // Next interval deadline for drift correction

	warp     atomic.Int64
	isPaused atomic.Bool

	// Interval counter for debugging and metrics
	intervalCount atomic.Uint64
	mu            sync.Mutex

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Send signal that an interval completed
	updateDone chan<- struct{}

	// Cached metric pointers
	statWarp *atomic.Int64
}

// NewClockScheduler creates a scheduler at warp 1
// Returns the updateDone (receive) channel, signalled after every interval
func NewClockScheduler(sim *Simulation, tickInterval time.Duration) (*ClockScheduler, <-chan struct{}) {
	if tickInterval <= 0 {
		tickInterval = parameter.TickInterval
	}
	updateDone := make(chan struct{}, 1)

	cs := &ClockScheduler{
		sim:          sim,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updateDone:   updateDone,
		statWarp:     sim.Status().Ints.Get("engine.warp"),
	}
	cs.SetWarp(1)

	return cs, updateDone
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// Use core.Go for safe execution with centralized crash handling
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for the running interval
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// Pause suspends ticking, bodies keep their state
func (cs *ClockScheduler) Pause() { cs.isPaused.Store(true) }

// Resume continues ticking from a fresh deadline
func (cs *ClockScheduler) Resume() {
	if cs.isPaused.CompareAndSwap(true, false) {
		cs.mu.Lock()
		cs.nextTickDeadline = cs.now().Add(cs.tickInterval)
		cs.mu.Unlock()
	}
}

// IsPaused reports the pause state
func (cs *ClockScheduler) IsPaused() bool { return cs.isPaused.Load() }

// SetWarp sets the ticks run per interval, clamped to [1, parameter.MaxWarp]
func (cs *ClockScheduler) SetWarp(n int) {
	n = min(max(n, 1), parameter.MaxWarp)
	cs.warp.Store(int64(n))
	cs.statWarp.Store(int64(n))
}

// Warp returns the current tick-rate multiplier
func (cs *ClockScheduler) Warp() int { return int(cs.warp.Load()) }

// Intervals returns the number of completed intervals
func (cs *ClockScheduler) Intervals() uint64 { return cs.intervalCount.Load() }

// Advance runs one interval synchronously and returns the last simulation tick
// Ignores pause, used by tests and single-stepping
func (cs *ClockScheduler) Advance() int64 {
	var tick int64
	n := cs.Warp()
	for i := 0; i < n; i++ {
		tick = cs.sim.Advance()
	}
	cs.intervalCount.Add(1)

	select {
	case cs.updateDone <- struct{}{}:
	default:
	}
	return tick
}

// now reads the simulation's time provider so deadlines follow a mocked clock in tests
func (cs *ClockScheduler) now() time.Time {
	return cs.sim.Options().Time.Now()
}

// schedulerLoop runs the fixed-interval loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.now().Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.isPaused.Load() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			now := cs.now()

			cs.mu.Lock()
			deadline := cs.nextTickDeadline
			cs.mu.Unlock()

			if !now.Before(deadline) {
				cs.Advance()

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

				maxBehind := cs.tickInterval * parameter.MaxTicksBehind
				if now.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = now.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				sleepDuration = max(deadline.Sub(cs.now()), 0)
			} else {
				sleepDuration = deadline.Sub(now)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}
