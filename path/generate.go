package path

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/core"
	"github.com/lixenwraith/gravpath/physics"
	"github.com/lixenwraith/gravpath/vmath"
)

// Request describes one prediction run
// Ticks is rounded up to a multiple of TickStep; the result holds Ticks/TickStep+1 samples unless it crashes
type Request struct {
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	StartTick int64
	Dt        float64 // Seconds per simulation tick
	Ticks     int64
	TickStep  int64

	CollisionRadius float64
	G               float64
	Rescaling       float64
}

// SimState is the integrator state owned by one Generator
type SimState struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Tick     int64
}

// Generator integrates a Request in budgeted batches
// It owns all of its state and only reads the immutable Field, so it may run on any goroutine
type Generator struct {
	field *physics.Field
	req   Request

	state   SimState
	prevPos mgl64.Vec3
	stepDt  float64

	step  int64
	steps int64

	path *SimPath
	done bool
}

// NewGenerator prepares a run; the first sample is the request state itself
func NewGenerator(field *physics.Field, req Request) *Generator {
	if !vmath.IsPowerOfTwo(req.TickStep) {
		panic(fmt.Sprintf("path: tick step %d is not a power of two", req.TickStep))
	}
	if req.Ticks < 0 {
		panic(fmt.Sprintf("path: negative tick count %d", req.Ticks))
	}

	return &Generator{
		field: field,
		req:   req,
		state: SimState{
			Position: vmath.Flatten(req.Position),
			Velocity: vmath.Flatten(req.Velocity),
			Tick:     req.StartTick,
		},
		stepDt: float64(req.TickStep) * req.Dt,
		steps:  (req.Ticks + req.TickStep - 1) / req.TickStep,
		path:   NewSimPath(req.StartTick, req.TickStep, field.Len()),
	}
}

// Done reports whether the run finished
func (g *Generator) Done() bool { return g.done }

// Progress returns completed and total internal steps
func (g *Generator) Progress() (step, steps int64) { return g.step, g.steps }

// Advance runs up to budget internal steps, budget <= 0 runs to completion
// Returns true once the path is complete
func (g *Generator) Advance(budget int) bool {
	for n := 0; !g.done && (budget <= 0 || n < budget); n++ {
		g.advanceOne()
	}
	return g.done
}

// Result returns the finished path, nil while still running
func (g *Generator) Result() *SimPath {
	if !g.done {
		return nil
	}
	return g.path
}

func (g *Generator) advanceOne() {
	tick := g.state.Tick
	time := float64(tick) * g.req.Dt
	fi := g.field.CalculateForce(time, g.state.Position, g.req.G, g.req.Rescaling)

	if fi.Valid {
		g.trackSOI(tick, &fi)
	}

	if g.step > 0 {
		move := g.state.Position.Sub(g.prevPos)
		hit := g.field.DetectCrash(&fi, g.prevPos, move, g.req.CollisionRadius)
		if hit.Occurred {
			prevTick := tick - g.req.TickStep
			g.path.Crashed = true
			g.path.CrashTick = prevTick + int64(math.Floor(hit.T*float64(g.req.TickStep)))
			g.path.CrashPosition = vmath.Flatten(hit.At)
			g.path.CrashSource = hit.Source
			g.record(&fi)
			g.done = true
			return
		}
	}

	g.record(&fi)

	if g.step >= g.steps {
		g.done = true
		return
	}

	var accel mgl64.Vec3
	if fi.Valid {
		accel = fi.RescaledTotalForce
	}
	g.prevPos = g.state.Position
	g.state.Position, g.state.Velocity = physics.Integrate(g.state.Position, g.state.Velocity, accel, g.stepDt)
	g.state.Tick += g.req.TickStep
	g.step++
}

// record writes the current state as absolute and per-source relative samples
func (g *Generator) record(fi *physics.ForceInfo) {
	pos, vel := g.state.Position, g.state.Velocity
	g.path.Absolute.Add(pos, vel)
	if !fi.Valid {
		return
	}
	for id, s := range g.path.Relative {
		s.Add(pos.Sub(fi.Positions[id]), vel.Sub(fi.Velocities[id]))
	}
}

// trackSOI opens a new interval when the primary changes, else extends the current one
func (g *Generator) trackSOI(tick int64, fi *physics.ForceInfo) {
	primary := fi.Primary()
	mag := fi.PrimaryMagnitude()

	n := len(g.path.SOIs)
	if n == 0 || g.path.SOIs[n-1].Source != primary {
		g.path.SOIs = append(g.path.SOIs, SOI{
			Source:            primary,
			StartTick:         tick,
			EndTick:           tick,
			MaxForceMagnitude: mag,
			MaxForceTick:      tick,
			MaxForcePosition:  g.state.Position,
		})
		return
	}

	cur := &g.path.SOIs[n-1]
	cur.EndTick = tick
	if mag > cur.MaxForceMagnitude {
		cur.MaxForceMagnitude = mag
		cur.MaxForceTick = tick
		cur.MaxForcePosition = g.state.Position
	}
}

// Calculate runs a request to completion on the calling goroutine
func Calculate(field *physics.Field, req Request) *SimPath {
	g := NewGenerator(field, req)
	g.Advance(0)
	return g.Result()
}

// CalculateAsync runs a request on a worker goroutine
// The channel delivers exactly one finished path; there is no cancellation
func CalculateAsync(field *physics.Field, req Request) <-chan *SimPath {
	out := make(chan *SimPath, 1)
	core.Go(func() {
		out <- Calculate(field, req)
	})
	return out
}
