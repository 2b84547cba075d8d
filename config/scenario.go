// Package config loads sandbox scenarios from INI files
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/soniakeys/unit"
	"gopkg.in/gcfg.v1"

	"github.com/lixenwraith/gravpath/engine"
	"github.com/lixenwraith/gravpath/orbit"
	"github.com/lixenwraith/gravpath/parameter"
	"github.com/lixenwraith/gravpath/physics"
	"github.com/lixenwraith/gravpath/vmath"
)

type SimulationConfig struct {
	// Optional, zero selects the parameter default
	G           float64
	Rescaling   float64
	Dt          float64
	TickStep    int64
	TargetTicks int64
	SliceBudget int

	// "async" or "sliced", empty selects the platform default
	Mode string
}

func (sim *SimulationConfig) CheckInit() error {
	if sim.G == 0 {
		sim.G = parameter.GravityConstant
	} else if sim.G < 0 {
		return fmt.Errorf("Gravity constant must be positive, but is %g", sim.G)
	}

	if sim.Rescaling == 0 {
		sim.Rescaling = parameter.ForceRescaling
	} else if sim.Rescaling < 1 {
		return fmt.Errorf("Rescaling must be at least 1, but is %g", sim.Rescaling)
	}

	if sim.Dt == 0 {
		sim.Dt = parameter.TickSeconds
	} else if sim.Dt < 0 {
		return fmt.Errorf("Dt must be positive, but is %g", sim.Dt)
	}

	if sim.TickStep == 0 {
		sim.TickStep = parameter.PathTickStep
	} else if !vmath.IsPowerOfTwo(sim.TickStep) {
		return fmt.Errorf("TickStep must be a power of two, but is %d", sim.TickStep)
	}

	if sim.TargetTicks == 0 {
		sim.TargetTicks = parameter.PathTargetTicks
	} else if sim.TargetTicks < 0 {
		return fmt.Errorf("TargetTicks must be positive, but is %d", sim.TargetTicks)
	}

	if sim.SliceBudget == 0 {
		sim.SliceBudget = parameter.PathSliceBudget
	}

	switch strings.ToLower(sim.Mode) {
	case "", "async", "sliced":
	default:
		return fmt.Errorf("Mode must be 'async' or 'sliced', but is '%s'", sim.Mode)
	}

	return nil
}

type BodyConfig struct {
	// Required
	Mass, Radius float64

	// Orbiting bodies name a parent and give periapsis; angles in degrees
	Parent    string
	Periapsis float64
	Apoapsis  float64
	Angle     float64
	Phase     float64
	Clockwise bool

	// Fixed bodies (no parent) sit at X, Y
	X, Y float64

	Name string
}

func (body *BodyConfig) CheckInit(name string) error {
	if body.Mass <= 0 {
		return fmt.Errorf("Need to specify a positive mass for Body '%s'", name)
	} else if body.Radius <= 0 {
		return fmt.Errorf("Need to specify a positive radius for Body '%s'", name)
	}

	body.Name = name
	if body.Parent == "" {
		return nil
	}

	if body.Parent == name {
		return fmt.Errorf("Body '%s' cannot orbit itself", name)
	} else if body.Periapsis <= 0 {
		return fmt.Errorf("Orbiting Body '%s' needs a positive periapsis", name)
	}

	if body.Apoapsis == 0 {
		body.Apoapsis = body.Periapsis
	} else if body.Apoapsis < body.Periapsis {
		return fmt.Errorf(
			"Apoapsis of Body '%s' must be at least its periapsis %g, but is %g",
			name, body.Periapsis, body.Apoapsis,
		)
	}

	return nil
}

// Elements returns the orbit with angles converted to radians, Mu is left for the scene to fill
func (body *BodyConfig) Elements() *orbit.Elements {
	if body.Parent == "" {
		return nil
	}
	return &orbit.Elements{
		Periapsis: body.Periapsis,
		Apoapsis:  body.Apoapsis,
		Angle:     unit.AngleFromDeg(body.Angle).Rad(),
		Phase:     unit.AngleFromDeg(body.Phase).Rad(),
		Clockwise: body.Clockwise,
	}
}

type CraftConfig struct {
	// Absolute start state, used when Around is empty
	X, Y, VX, VY float64

	// Circular start orbit around a named body at Altitude above its surface
	Around    string
	Altitude  float64
	Clockwise bool

	// Optional
	CollisionRadius float64
	Name            string
}

func (craft *CraftConfig) CheckInit(name string, bodies map[string]*BodyConfig) error {
	craft.Name = name

	if craft.CollisionRadius == 0 {
		craft.CollisionRadius = parameter.CollisionRadius
	} else if craft.CollisionRadius < 0 {
		return fmt.Errorf(
			"Craft '%s' given a negative collision radius, %g",
			name, craft.CollisionRadius,
		)
	}

	if craft.Around == "" {
		return nil
	}
	if _, ok := bodies[craft.Around]; !ok {
		return fmt.Errorf("Craft '%s' orbits unknown Body '%s'", name, craft.Around)
	} else if craft.Altitude <= 0 {
		return fmt.Errorf("Craft '%s' needs a positive altitude, but is %g", name, craft.Altitude)
	}

	return nil
}

// InitialState resolves the start position and velocity against a built field at time 0
func (craft *CraftConfig) InitialState(f *physics.Field, g float64) (pos, vel mgl64.Vec3, err error) {
	if craft.Around == "" {
		return mgl64.Vec3{craft.X, craft.Y, 0}, mgl64.Vec3{craft.VX, craft.VY, 0}, nil
	}

	id, ok := f.Lookup(craft.Around)
	if !ok {
		return pos, vel, fmt.Errorf("craft %q: body %q not in field", craft.Name, craft.Around)
	}
	src := f.Source(id)
	states := f.SourceStates(0)

	r := src.Radius + craft.Altitude
	offset := mgl64.Vec3{r, 0, 0}
	pos = states[id].Position.Add(offset)
	vel = states[id].Velocity.Add(vmath.CircularVelocity(offset, g*src.Mass, craft.Clockwise))
	return pos, vel, nil
}

// Scenario is one loaded sandbox file
type Scenario struct {
	Simulation SimulationConfig
	Body       map[string]*BodyConfig
	Craft      map[string]*CraftConfig
}

// Load reads and validates a scenario file
func Load(fname string) (*Scenario, error) {
	sc := &Scenario{}
	if err := gcfg.ReadFileInto(sc, fname); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", fname, err)
	}
	if err := sc.CheckInit(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", fname, err)
	}
	return sc, nil
}

// Parse reads and validates scenario text
func Parse(text string) (*Scenario, error) {
	sc := &Scenario{}
	if err := gcfg.ReadStringInto(sc, text); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.CheckInit(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scenario) CheckInit() error {
	if err := sc.Simulation.CheckInit(); err != nil {
		return err
	}

	if len(sc.Body) == 0 {
		return fmt.Errorf("Need at least one Body")
	}
	for name, body := range sc.Body {
		if err := body.CheckInit(name); err != nil {
			return err
		}
		if body.Parent != "" {
			if _, ok := sc.Body[body.Parent]; !ok {
				return fmt.Errorf("Body '%s' orbits unknown Body '%s'", name, body.Parent)
			}
		}
	}
	for name, body := range sc.Body {
		if err := sc.checkAcyclic(name, body); err != nil {
			return err
		}
	}

	for name, craft := range sc.Craft {
		if err := craft.CheckInit(name, sc.Body); err != nil {
			return err
		}
	}

	return nil
}

func (sc *Scenario) checkAcyclic(name string, body *BodyConfig) error {
	seen := map[string]bool{name: true}
	for p := body.Parent; p != ""; p = sc.Body[p].Parent {
		if seen[p] {
			return fmt.Errorf("Body '%s' has a cyclic parent chain through '%s'", name, p)
		}
		seen[p] = true
	}
	return nil
}

// Scene builds the scene graph with siblings in name order so source ids are stable
func (sc *Scenario) Scene() []*engine.SceneNode {
	children := make(map[string][]string)
	var roots []string
	for name, body := range sc.Body {
		if body.Parent == "" {
			roots = append(roots, name)
		} else {
			children[body.Parent] = append(children[body.Parent], name)
		}
	}

	var build func(name string) *engine.SceneNode
	build = func(name string) *engine.SceneNode {
		body := sc.Body[name]
		node := &engine.SceneNode{
			Name:     name,
			Mass:     body.Mass,
			Radius:   body.Radius,
			Position: mgl64.Vec3{body.X, body.Y, 0},
			Orbit:    body.Elements(),
		}
		kids := children[name]
		sort.Strings(kids)
		for _, k := range kids {
			node.Children = append(node.Children, build(k))
		}
		return node
	}

	sort.Strings(roots)
	out := make([]*engine.SceneNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}

// Options maps the simulation section onto engine options
func (sc *Scenario) Options() engine.Options {
	opts := engine.DefaultOptions()
	s := sc.Simulation
	opts.G = s.G
	opts.Rescaling = s.Rescaling
	opts.Dt = s.Dt
	opts.TickStep = s.TickStep
	opts.SliceBudget = s.SliceBudget
	switch strings.ToLower(s.Mode) {
	case "async":
		opts.Mode = engine.GenerateAsync
	case "sliced":
		opts.Mode = engine.GenerateSliced
	}
	return opts
}

// Crafts returns the crafts in name order
func (sc *Scenario) Crafts() []*CraftConfig {
	names := make([]string, 0, len(sc.Craft))
	for name := range sc.Craft {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*CraftConfig, 0, len(names))
	for _, n := range names {
		out = append(out, sc.Craft[n])
	}
	return out
}
