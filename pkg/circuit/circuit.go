// Package circuit holds the component/node graph the analyses run against.
// Nodes live in an arena addressed by index; pins refer to nodes by index,
// never by pointer. Node voltages are written only by the analysis drivers.
package circuit

import (
	"fmt"

	"rfsim/pkg/component"
)

// NoGround marks a graph whose reference node has not been designated yet.
const NoGround = -1

type Graph struct {
	components []*component.Component
	voltages   []complex128
	ground     int
}

func New() *Graph {
	return &Graph{ground: NoGround}
}

// Node allocates a fresh net and returns its index.
func (g *Graph) Node() int {
	g.voltages = append(g.voltages, 0)
	return len(g.voltages) - 1
}

func (g *Graph) NumNodes() int { return len(g.voltages) }

// Add registers a component, binding its pins in order to the given nodes.
// Pins beyond len(nodes), or given as component.Unconnected, receive a fresh
// node each, so registration never leaves a dangling pin.
func (g *Graph) Add(c *component.Component, nodes ...int) error {
	pins := c.Pins()
	if len(nodes) > len(pins) {
		return fmt.Errorf("component %s: %d nodes for %d pins", c.Name(), len(nodes), len(pins))
	}

	for i := range pins {
		n := component.Unconnected
		if i < len(nodes) {
			n = nodes[i]
		}
		if n == component.Unconnected {
			n = g.Node()
		} else if n < 0 || n >= len(g.voltages) {
			return fmt.Errorf("component %s pin %d: unknown node %d", c.Name(), i, n)
		}
		c.SetNode(i, n)
	}

	c.Bind(g)
	g.components = append(g.components, c)
	return nil
}

// Connect rebinds one pin of a registered component onto an existing node,
// merging it with whatever else sits there.
func (g *Graph) Connect(c *component.Component, pin, node int) error {
	if node < 0 || node >= len(g.voltages) {
		return fmt.Errorf("component %s pin %d: unknown node %d", c.Name(), pin, node)
	}
	if pin < 0 || pin >= len(c.Pins()) {
		return fmt.Errorf("component %s has no pin %d", c.Name(), pin)
	}
	c.SetNode(pin, node)
	return nil
}

// SetGround designates the reference node. Must happen exactly once before
// any analysis.
func (g *Graph) SetGround(node int) error {
	if g.ground != NoGround {
		return fmt.Errorf("ground already designated at node %d", g.ground)
	}
	if node < 0 || node >= len(g.voltages) {
		return fmt.Errorf("unknown node %d", node)
	}
	g.ground = node
	return nil
}

func (g *Graph) Ground() int { return g.ground }

func (g *Graph) Components() []*component.Component { return g.components }

// Component looks a registered component up by name.
func (g *Graph) Component(name string) *component.Component {
	for _, c := range g.components {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// NodeVoltage implements component.NodeReader. Ground reads as zero.
func (g *Graph) NodeVoltage(node int) complex128 {
	if node < 0 || node >= len(g.voltages) || node == g.ground {
		return 0
	}
	return g.voltages[node]
}

// SetNodeVoltage writes a solved voltage. Only the analysis drivers call it.
func (g *Graph) SetNodeVoltage(node int, v complex128) {
	if node >= 0 && node < len(g.voltages) {
		g.voltages[node] = v
	}
}

// ResetVoltages zeroes the solution between independent analyses.
func (g *Graph) ResetVoltages() {
	for i := range g.voltages {
		g.voltages[i] = 0
	}
}

// NodeVoltages returns the solved voltages in node creation order with the
// ground node excluded.
func (g *Graph) NodeVoltages() []complex128 {
	out := make([]complex128, 0, len(g.voltages))
	for i, v := range g.voltages {
		if i == g.ground {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Clone deep-copies the graph so fitness evaluations can run against an
// independent copy of the single shared mutable resource.
func (g *Graph) Clone() *Graph {
	dup := &Graph{
		components: make([]*component.Component, len(g.components)),
		voltages:   make([]complex128, len(g.voltages)),
		ground:     g.ground,
	}
	copy(dup.voltages, g.voltages)
	for i, c := range g.components {
		cc := c.Clone()
		cc.Bind(dup)
		dup.components[i] = cc
	}
	return dup
}
