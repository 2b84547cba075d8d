package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/orbit"
	"github.com/lixenwraith/gravpath/physics"
	"github.com/lixenwraith/gravpath/vmath"
)

// SceneNode is one body of the external orbit/gravity graph
// Orbit nil means the body is fixed at Position (absolute)
// Orbit set means it orbits its parent; Mu is filled from G and the parent mass
type SceneNode struct {
	Name     string
	Mass     float64
	Radius   float64
	Position mgl64.Vec3
	Orbit    *orbit.Elements
	Children []*SceneNode
}

// FlattenScene walks the graph depth-first into parent-indexed arrays
// Parents always precede children in both the source and the orbit lists
func FlattenScene(roots []*SceneNode, g float64) ([]physics.GravitySource, []orbit.Node, error) {
	var (
		sources []physics.GravitySource
		nodes   []orbit.Node
	)

	var visit func(n *SceneNode, parent physics.SourceID) error
	visit = func(n *SceneNode, parent physics.SourceID) error {
		src := physics.GravitySource{
			Name:       n.Name,
			Mass:       n.Mass,
			Radius:     n.Radius,
			Parent:     parent,
			OrbitIndex: physics.NoOrbit,
			Position:   vmath.Flatten(n.Position),
		}

		if n.Orbit != nil {
			if parent == physics.NoSource {
				return fmt.Errorf("body %q: orbit requires a parent", n.Name)
			}
			ps := sources[parent]

			el := *n.Orbit
			el.Mu = g * ps.Mass

			node := orbit.Node{Elements: el, Parent: orbit.NoParent}
			if ps.OrbitIndex == physics.NoOrbit {
				node.Origin = ps.Position
			} else {
				node.Parent = ps.OrbitIndex
			}

			src.OrbitIndex = len(nodes)
			nodes = append(nodes, node)
		}

		sources = append(sources, src)
		id := physics.SourceID(len(sources) - 1)

		for _, c := range n.Children {
			if err := visit(c, id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := visit(r, physics.NoSource); err != nil {
			return nil, nil, err
		}
	}
	return sources, nodes, nil
}

// BuildField flattens a scene into an immutable gravity field
func BuildField(roots []*SceneNode, g float64) (*physics.Field, error) {
	sources, nodes, err := FlattenScene(roots, g)
	if err != nil {
		return nil, err
	}
	h, err := orbit.NewHierarchy(nodes)
	if err != nil {
		return nil, fmt.Errorf("build orbit hierarchy: %w", err)
	}
	f, err := physics.NewField(sources, h)
	if err != nil {
		return nil, fmt.Errorf("build gravity field: %w", err)
	}
	return f, nil
}
