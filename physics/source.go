package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/orbit"
)

// SourceID is a stable index of a gravity source inside one Field
// Plain integer so it crosses goroutine boundaries by value
type SourceID int

// NoSource marks an absent parent or primary
const NoSource SourceID = -1

// NoOrbit marks a source that sits at a fixed position
const NoOrbit = -1

// GravitySource is a point mass with a spherical surface
type GravitySource struct {
	Name       string
	Mass       float64
	Radius     float64
	Parent     SourceID   // NoSource for roots
	OrbitIndex int        // Index into the Field's orbit hierarchy, NoOrbit if fixed
	Position   mgl64.Vec3 // Used only when OrbitIndex == NoOrbit
}

// Field is an immutable snapshot of every gravity source and the orbits that move them
// Safe for concurrent readers; never mutated after NewField
type Field struct {
	sources []GravitySource
	orbits  *orbit.Hierarchy
}

// NewField validates the source list against the orbit hierarchy
// Parents must precede children, matching the depth-first flattening order
func NewField(sources []GravitySource, orbits *orbit.Hierarchy) (*Field, error) {
	for i, s := range sources {
		if s.Parent != NoSource && (s.Parent < 0 || int(s.Parent) >= i) {
			return nil, fmt.Errorf("source %d (%s): parent %d must precede it", i, s.Name, s.Parent)
		}
		if s.OrbitIndex != NoOrbit && (s.OrbitIndex < 0 || s.OrbitIndex >= orbits.Len()) {
			return nil, fmt.Errorf("source %d (%s): orbit index %d out of range", i, s.Name, s.OrbitIndex)
		}
		if s.Mass < 0 || s.Radius < 0 {
			return nil, fmt.Errorf("source %d (%s): negative mass or radius", i, s.Name)
		}
	}

	f := &Field{
		sources: make([]GravitySource, len(sources)),
		orbits:  orbits,
	}
	copy(f.sources, sources)
	return f, nil
}

// Len returns the number of gravity sources, nil-safe
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.sources)
}

// Source returns a copy of source id
func (f *Field) Source(id SourceID) GravitySource {
	return f.sources[id]
}

// Lookup finds a source by name
func (f *Field) Lookup(name string) (SourceID, bool) {
	for i := range f.sources {
		if f.sources[i].Name == name {
			return SourceID(i), true
		}
	}
	return NoSource, false
}

// Ancestors returns the chain id, parent, grandparent... up to a root
func (f *Field) Ancestors(id SourceID) []SourceID {
	var chain []SourceID
	for cur := id; cur != NoSource; cur = f.sources[cur].Parent {
		chain = append(chain, cur)
	}
	return chain
}

// SourceStates resolves the absolute state of every source at time t
// Fixed sources report zero velocity
func (f *Field) SourceStates(t float64) []orbit.State {
	n := f.Len()
	if n == 0 {
		return nil
	}

	var orbitStates []orbit.State
	if f.orbits.Len() > 0 {
		orbitStates = f.orbits.Evaluate(t, nil)
	}

	states := make([]orbit.State, n)
	for i := range f.sources {
		s := &f.sources[i]
		if s.OrbitIndex == NoOrbit {
			states[i] = orbit.State{Position: s.Position}
			continue
		}
		states[i] = orbitStates[s.OrbitIndex]
	}
	return states
}
