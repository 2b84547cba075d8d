package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/gravpath/orbit"
	"github.com/lixenwraith/gravpath/parameter"
	"github.com/lixenwraith/gravpath/physics"
	"github.com/lixenwraith/gravpath/status"
)

// GenerationMode selects where path generation runs
type GenerationMode uint8

const (
	// GenerateAsync runs each generation on its own worker goroutine
	GenerateAsync GenerationMode = iota
	// GenerateSliced advances generation SliceBudget steps per Step call on the caller goroutine
	GenerateSliced
)

func (m GenerationMode) String() string {
	switch m {
	case GenerateAsync:
		return "Async"
	case GenerateSliced:
		return "Sliced"
	default:
		return "Unknown"
	}
}

// Options configures a Simulation
type Options struct {
	G         float64
	Rescaling float64
	Dt        float64 // Simulated seconds per tick
	TickStep  int64   // Path sample stride, power of two

	Mode        GenerationMode
	SliceBudget int // Internal steps per Step in GenerateSliced, <= 0 finishes in one call

	Status *status.Registry
	Time   TimeProvider
}

// DefaultOptions returns the parameter defaults for the current platform
func DefaultOptions() Options {
	return Options{
		G:           parameter.GravityConstant,
		Rescaling:   parameter.ForceRescaling,
		Dt:          parameter.TickSeconds,
		TickStep:    parameter.PathTickStep,
		Mode:        DefaultGenerationMode,
		SliceBudget: parameter.PathSliceBudget,
	}
}

// Controller supplies the external force (thrust, AI steering) for a body each tick
type Controller interface {
	ExternalForce(tick int64, body *SectionedSimPath) mgl64.Vec3
}

// ControllerFunc adapts a function to Controller
type ControllerFunc func(tick int64, body *SectionedSimPath) mgl64.Vec3

// ExternalForce calls f
func (f ControllerFunc) ExternalForce(tick int64, body *SectionedSimPath) mgl64.Vec3 {
	return f(tick, body)
}

// CrashNotifier is optionally implemented by controllers that react to a crash
type CrashNotifier interface {
	OnCrash(tick int64, body *SectionedSimPath)
}

type registration struct {
	id   uuid.UUID
	body *SectionedSimPath
	ctrl Controller
}

// Simulation owns the gravity snapshot, the simulation tick and every registered body
type Simulation struct {
	opts Options

	mu           sync.RWMutex
	field        *physics.Field
	tick         int64
	sourceStates []orbit.State
	bodies       []registration

	// Cached metric pointers
	statTicks       *atomic.Int64
	statGenerations *atomic.Int64
	statDiscarded   *atomic.Int64
	statRegen       *atomic.Int64
	statDeadReckon  *atomic.Int64
	statCrashes     *atomic.Int64
	statBodies      *atomic.Int64
	statGenLatency  *status.AtomicFloat
}

// NewSimulation creates an empty simulation, gravity arrives via DelayedInit
func NewSimulation(opts Options) *Simulation {
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if opts.Time == nil {
		opts.Time = NewMonotonicTimeProvider()
	}
	if opts.Dt <= 0 {
		panic(fmt.Sprintf("engine: tick duration must be positive, got %g", opts.Dt))
	}

	reg := opts.Status
	empty, _ := physics.NewField(nil, nil)
	return &Simulation{
		opts:            opts,
		field:           empty,
		statTicks:       reg.Ints.Get("engine.ticks"),
		statGenerations: reg.Ints.Get("path.generations"),
		statDiscarded:   reg.Ints.Get("path.discarded"),
		statRegen:       reg.Ints.Get("path.regen_requests"),
		statDeadReckon:  reg.Ints.Get("path.dead_reckon_ticks"),
		statCrashes:     reg.Ints.Get("engine.crashes"),
		statBodies:      reg.Ints.Get("engine.bodies"),
		statGenLatency:  reg.Floats.Get("path.gen_ms_max"),
	}
}

// Options returns the configuration in use
func (s *Simulation) Options() Options { return s.opts }

// Status returns the metrics registry
func (s *Simulation) Status() *status.Registry { return s.opts.Status }

// DelayedInit snapshots the external scene graph into a new immutable field
// Bodies notice the swap on their next Step and regenerate their paths
func (s *Simulation) DelayedInit(roots []*SceneNode) error {
	f, err := BuildField(roots, s.opts.G)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.field = f
	s.sourceStates = f.SourceStates(float64(s.tick) * s.opts.Dt)
	s.mu.Unlock()

	log.Printf("engine: gravity snapshot rebuilt with %d sources", f.Len())
	return nil
}

// Field returns the current gravity snapshot
func (s *Simulation) Field() *physics.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.field
}

// Tick returns the last completed simulation tick
func (s *Simulation) Tick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// SourceStates returns the absolute source states at the current tick
func (s *Simulation) SourceStates() []orbit.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]orbit.State, len(s.sourceStates))
	copy(out, s.sourceStates)
	return out
}

// CreateSectionedSimPath spawns prediction state for a moving body at the current tick
// The body is not stepped by the clock until Register is called
func (s *Simulation) CreateSectionedSimPath(startPosition, startVelocity mgl64.Vec3, targetTicks int64, collisionRadius float64) *SectionedSimPath {
	return newSectionedSimPath(s, s.Tick(), startPosition, startVelocity, targetTicks, collisionRadius)
}

// Register adds a body to the tick loop, nil ctrl means no external force
func (s *Simulation) Register(body *SectionedSimPath, ctrl Controller) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.bodies = append(s.bodies, registration{id: id, body: body, ctrl: ctrl})
	s.statBodies.Store(int64(len(s.bodies)))
	s.mu.Unlock()
	return id
}

// Unregister removes a body, reports whether it was present
func (s *Simulation) Unregister(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bodies {
		if s.bodies[i].id == id {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			s.statBodies.Store(int64(len(s.bodies)))
			return true
		}
	}
	return false
}

// Body returns a registered body by handle
func (s *Simulation) Body(id uuid.UUID) (*SectionedSimPath, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.bodies {
		if s.bodies[i].id == id {
			return s.bodies[i].body, true
		}
	}
	return nil, false
}

// Bodies returns registered handles in step order
func (s *Simulation) Bodies() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, len(s.bodies))
	for i := range s.bodies {
		ids[i] = s.bodies[i].id
	}
	return ids
}

// Advance runs one simulation tick: orbit state first, then every body in registration order
// Crashed bodies are reported to their controller and unregistered
func (s *Simulation) Advance() int64 {
	s.mu.Lock()
	s.tick++
	tick := s.tick
	s.sourceStates = s.field.SourceStates(float64(tick) * s.opts.Dt)
	regs := make([]registration, len(s.bodies))
	copy(regs, s.bodies)
	s.mu.Unlock()

	// Controllers run unlocked so they may query the simulation
	for _, r := range regs {
		var force mgl64.Vec3
		if r.ctrl != nil {
			force = r.ctrl.ExternalForce(tick, r.body)
		}
		if r.body.Step(tick, force, s.opts.Dt) {
			continue
		}

		s.statCrashes.Add(1)
		if n, ok := r.ctrl.(CrashNotifier); ok {
			n.OnCrash(tick, r.body)
		}
		s.Unregister(r.id)
	}

	s.statTicks.Store(tick)
	return tick
}
