package engine

import (
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/parameter"
	"github.com/lixenwraith/gravpath/path"
	"github.com/lixenwraith/gravpath/physics"
	"github.com/lixenwraith/gravpath/vmath"
)

// PathState is the per-tick mode of a SectionedSimPath
type PathState uint8

const (
	// StateNoPath: no prediction attached yet
	StateNoPath PathState = iota
	// StateFollowing: position read from the attached prediction
	StateFollowing
	// StateDeadReckoning: integrated directly this tick
	StateDeadReckoning
	// StateCrashed: terminal
	StateCrashed
)

func (s PathState) String() string {
	switch s {
	case StateNoPath:
		return "NoPath"
	case StateFollowing:
		return "Following"
	case StateDeadReckoning:
		return "DeadReckoning"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// pendingGeneration is the single in-flight prediction of a body
type pendingGeneration struct {
	extend    bool
	epoch     uint64
	field     *physics.Field
	requested time.Time

	result <-chan *path.SimPath // GenerateAsync
	gen    *path.Generator      // GenerateSliced
}

// SectionedSimPath is the live prediction wrapper of one moving body
// Step is driven by the tick goroutine; read accessors are safe from any goroutine
type SectionedSimPath struct {
	mu  sync.RWMutex
	sim *Simulation

	targetTicks     int64
	collisionRadius float64

	path      *path.SimPath
	pathField *physics.Field

	tick             int64 // Tick of the current position/velocity
	position         mgl64.Vec3
	velocity         mgl64.Vec3
	relativeVelocity mgl64.Vec3
	state            PathState
	crashed          bool

	pending       *pendingGeneration
	restartPath   bool
	divergence    uint64 // Bumped on every tick with external force
	regenRequests int64
}

func newSectionedSimPath(sim *Simulation, tick int64, position, velocity mgl64.Vec3, targetTicks int64, collisionRadius float64) *SectionedSimPath {
	if targetTicks <= 0 {
		targetTicks = parameter.PathTargetTicks
	}
	return &SectionedSimPath{
		sim:              sim,
		targetTicks:      targetTicks,
		collisionRadius:  collisionRadius,
		tick:             tick,
		position:         vmath.Flatten(position),
		velocity:         vmath.Flatten(velocity),
		relativeVelocity: vmath.Flatten(velocity),
		state:            StateNoPath,
	}
}

// Step advances the body to tick
// Returns false once the body has crashed; the caller stops or destroys it
func (p *SectionedSimPath) Step(tick int64, externalForce mgl64.Vec3, timeStep float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.crashed {
		return false
	}

	field := p.sim.Field()
	p.collectGeneration()

	if p.path != nil {
		p.path.TrimStart(tick)
		if p.pathField != field {
			// Gravity snapshot changed under the prediction
			p.restartPath = true
		}
	}

	if p.path != nil && p.path.CrashedBy(tick) {
		p.crash(tick, p.path.CrashPosition)
		return false
	}

	thrust := !vmath.IsZero(externalForce)
	if p.path != nil && !thrust && p.path.Absolute.Covers(tick) {
		p.follow(tick, timeStep)
	} else if !p.deadReckon(field, tick, externalForce, timeStep, thrust) {
		return false
	}

	p.maybeGenerate(field, tick, timeStep)
	return true
}

// follow reads the current state from the attached prediction
// Relative velocity comes from the dominant SOI's relative section
func (p *SectionedSimPath) follow(tick int64, dt float64) {
	pos, vel := p.path.Absolute.PositionVelocityHermite(tick, dt)
	p.position, p.velocity = pos, vel
	p.relativeVelocity = vel

	if soi, ok := p.path.SOIAt(tick); ok {
		if rel, ok := p.path.RelativeTo(soi.Source); ok && rel.Covers(tick) {
			_, p.relativeVelocity = rel.PositionVelocityHermite(tick, dt)
		}
	}

	p.tick = tick
	p.state = StateFollowing
}

// deadReckon integrates one tick directly and sweeps the step for collisions
// Any dead-reckoned tick invalidates the prediction; thrust additionally marks in-flight results stale
func (p *SectionedSimPath) deadReckon(field *physics.Field, tick int64, externalForce mgl64.Vec3, dt float64, thrust bool) bool {
	opts := p.sim.Options()
	fi := field.CalculateForce(float64(p.tick)*dt, p.position, opts.G, opts.Rescaling)

	accel := externalForce
	if fi.Valid {
		accel = accel.Add(fi.RescaledTotalForce)
	}

	prev := p.position
	p.position, p.velocity = physics.Integrate(prev, p.velocity, accel, dt)
	p.relativeVelocity = p.velocity
	if fi.Valid {
		p.relativeVelocity = p.velocity.Sub(fi.Velocities[fi.PrimaryIndex])
	}
	p.tick = tick
	p.state = StateDeadReckoning

	p.restartPath = true
	p.regenRequests++
	p.sim.statRegen.Add(1)
	p.sim.statDeadReckon.Add(1)
	if thrust {
		// Prediction no longer matches reality, replaced wholesale by the next generation
		p.divergence++
		p.path = nil
		p.pathField = nil
	} else if p.path == nil {
		p.state = StateNoPath
	}

	hit := field.DetectCrash(&fi, prev, p.position.Sub(prev), p.collisionRadius)
	if hit.Occurred {
		p.crash(tick, hit.At)
		return false
	}
	return true
}

func (p *SectionedSimPath) crash(tick int64, at mgl64.Vec3) {
	p.crashed = true
	p.state = StateCrashed
	p.tick = tick
	p.position = vmath.Flatten(at)
	p.velocity = mgl64.Vec3{}
	p.relativeVelocity = mgl64.Vec3{}
}

// maybeGenerate launches a fresh or extending generation when none is in flight
func (p *SectionedSimPath) maybeGenerate(field *physics.Field, tick int64, dt float64) {
	if p.pending != nil || p.crashed {
		return
	}

	opts := p.sim.Options()
	req := path.Request{
		Dt:              dt,
		TickStep:        opts.TickStep,
		CollisionRadius: p.collisionRadius,
		G:               opts.G,
		Rescaling:       opts.Rescaling,
	}

	var extend bool
	switch {
	case p.restartPath || p.path == nil || p.path.Absolute.Len() == 0:
		req.Position, req.Velocity = p.position, p.velocity
		req.StartTick = tick
		req.Ticks = p.targetTicks
		p.restartPath = false

	case !p.path.Crashed && p.path.EndTick()-tick < p.targetTicks:
		remaining := p.path.EndTick() - tick
		req.Position, req.Velocity = p.path.Absolute.Last()
		req.StartTick = p.path.EndTick()
		req.Ticks = max(p.targetTicks-remaining, p.targetTicks/parameter.PathExtendDivisor)
		extend = true

	default:
		return
	}

	pg := &pendingGeneration{
		extend:    extend,
		epoch:     p.divergence,
		field:     field,
		requested: opts.Time.Now(),
	}
	if opts.Mode == GenerateSliced {
		pg.gen = path.NewGenerator(field, req)
	} else {
		pg.result = path.CalculateAsync(field, req)
	}
	p.pending = pg
	p.sim.statGenerations.Add(1)
}

// collectGeneration attaches a finished generation, never blocks
// Results requested before a thrust tick or against another gravity snapshot are discarded
func (p *SectionedSimPath) collectGeneration() {
	pg := p.pending
	if pg == nil {
		return
	}

	var result *path.SimPath
	if pg.gen != nil {
		if pg.gen.Advance(p.sim.Options().SliceBudget) {
			result = pg.gen.Result()
		}
	} else {
		select {
		case result = <-pg.result:
		default:
		}
	}
	if result == nil {
		return
	}

	p.pending = nil
	elapsed := p.sim.Options().Time.Now().Sub(pg.requested)
	p.sim.statGenLatency.Max(float64(elapsed) / float64(time.Millisecond))

	if pg.epoch != p.divergence {
		p.discard("body diverged while generating")
		return
	}

	if !pg.extend {
		p.path = result
		p.pathField = pg.field
		p.restartPath = false
		return
	}

	switch {
	case p.path == nil || p.path.Absolute.Len() == 0:
		// Body outran the old prediction, continuation becomes the whole path
		p.path = result
		p.pathField = pg.field
	case pg.field != p.pathField || p.path.Crashed || result.StartTick() != p.path.EndTick():
		p.discard("extension no longer continues the current path")
		return
	default:
		p.path.Append(result)
	}
	p.restartPath = false
}

func (p *SectionedSimPath) discard(reason string) {
	p.sim.statDiscarded.Add(1)
	log.Printf("path: discarded generation at tick %d: %s", p.tick, reason)
}

// Generating reports whether a generation is in flight
func (p *SectionedSimPath) Generating() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pending != nil
}

// RegenerationRequests returns how many ticks asked for a new prediction
func (p *SectionedSimPath) RegenerationRequests() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.regenRequests
}

// State returns the mode of the last Step
func (p *SectionedSimPath) State() PathState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Crashed reports whether the body reached a surface
func (p *SectionedSimPath) Crashed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.crashed
}

// Tick returns the tick of the current state
func (p *SectionedSimPath) Tick() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tick
}

// Position returns the current absolute position
func (p *SectionedSimPath) Position() mgl64.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// Velocity returns the current absolute velocity
func (p *SectionedSimPath) Velocity() mgl64.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.velocity
}

// RelativeVelocity returns velocity relative to the dominant source
func (p *SectionedSimPath) RelativeVelocity() mgl64.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.relativeVelocity
}

// GetAbsolutePath returns a copy of the predicted absolute section, nil before the first prediction
func (p *SectionedSimPath) GetAbsolutePath() *path.Section {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.path == nil {
		return nil
	}
	return p.path.Absolute.Clone()
}

// GetRelativePath returns a copy of the prediction relative to source id
func (p *SectionedSimPath) GetRelativePath(id physics.SourceID) (*path.Section, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.path == nil {
		return nil, false
	}
	s, ok := p.path.RelativeTo(id)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// GetFullPathSOIs returns a copy of every predicted sphere-of-influence interval
func (p *SectionedSimPath) GetFullPathSOIs() []path.SOI {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.path == nil {
		return nil
	}
	out := make([]path.SOI, len(p.path.SOIs))
	copy(out, p.path.SOIs)
	return out
}

// CurrentSOI returns the interval the body is in at its current tick
func (p *SectionedSimPath) CurrentSOI() (path.SOI, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.path == nil {
		return path.SOI{}, false
	}
	return p.path.SOIAt(p.tick)
}

// Crash returns the predicted crash tick and position, ok false when none is predicted
func (p *SectionedSimPath) Crash() (tick int64, at mgl64.Vec3, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.path == nil || !p.path.Crashed {
		return 0, mgl64.Vec3{}, false
	}
	return p.path.CrashTick, p.path.CrashPosition, true
}
