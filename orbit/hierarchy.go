package orbit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NoParent marks a node whose orbit is centered on a fixed origin
const NoParent = -1

// Node is one orbiting body in the flattened hierarchy
// Parent indexes an earlier node, or NoParent to orbit Origin
type Node struct {
	Elements Elements
	Parent   int
	Origin   mgl64.Vec3
}

// State is an absolute position/velocity pair
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// Hierarchy is an immutable, depth-first ordered orbit list
// A child always appears after its parent so one forward pass resolves all absolute states
type Hierarchy struct {
	nodes []Node
}

// NewHierarchy validates ordering and takes ownership of a copy of nodes
func NewHierarchy(nodes []Node) (*Hierarchy, error) {
	for i, n := range nodes {
		if n.Parent != NoParent && (n.Parent < 0 || n.Parent >= i) {
			return nil, fmt.Errorf("orbit %d: parent %d must precede it", i, n.Parent)
		}
		if err := n.Elements.Validate(); err != nil {
			return nil, fmt.Errorf("orbit %d: %w", i, err)
		}
	}
	h := &Hierarchy{nodes: make([]Node, len(nodes))}
	copy(h.nodes, nodes)
	return h, nil
}

// Len returns the number of orbit nodes
func (h *Hierarchy) Len() int {
	if h == nil {
		return 0
	}
	return len(h.nodes)
}

// Node returns a copy of node i
func (h *Hierarchy) Node(i int) Node {
	return h.nodes[i]
}

// Evaluate composes absolute states for every node at time t
// out is reused when large enough
func (h *Hierarchy) Evaluate(t float64, out []State) []State {
	n := h.Len()
	if cap(out) < n {
		out = make([]State, n)
	}
	out = out[:n]

	for i := 0; i < n; i++ {
		node := &h.nodes[i]
		pos, vel := node.Elements.State(t)
		if node.Parent == NoParent {
			out[i] = State{Position: pos.Add(node.Origin), Velocity: vel}
			continue
		}
		parent := out[node.Parent]
		out[i] = State{
			Position: pos.Add(parent.Position),
			Velocity: vel.Add(parent.Velocity),
		}
	}
	return out
}
