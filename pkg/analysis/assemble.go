// Package analysis drives Modified Nodal Analysis over a circuit graph. Each
// analysis mode is a pure function of the graph and a configuration; the one
// shared assembly routine is parameterized by the analysis frequency.
package analysis

import (
	"errors"
	"math/cmplx"

	"rfsim/pkg/circuit"
	"rfsim/pkg/component"
	"rfsim/pkg/matrix"
)

// minImpedance floors a zero impedance (inductor at DC, ideal short) so the
// admittance stays finite. Voltage sources do not go through it; they carry
// branch rows instead.
const minImpedance = 1e-9

type assembler struct {
	g       *circuit.Graph
	nodeIdx []int // node id -> 1..n matrix index, 0 for ground
	sources []*component.Component
	sys     *matrix.System
	n       int // non-ground nodes
}

func newAssembler(g *circuit.Graph) (*assembler, error) {
	if g.Ground() == circuit.NoGround {
		return nil, &StructuralError{Reason: "no ground node designated"}
	}

	a := &assembler{g: g, nodeIdx: make([]int, g.NumNodes())}

	idx := 0
	for node := 0; node < g.NumNodes(); node++ {
		if node == g.Ground() {
			continue
		}
		idx++
		a.nodeIdx[node] = idx
	}
	a.n = idx

	for _, c := range g.Components() {
		for _, pin := range c.Pins() {
			if pin.Node == component.Unconnected {
				return nil, &StructuralError{
					Reason: "component " + c.Name() + " pin " + pin.Name + " is unconnected",
				}
			}
		}
		if c.Kind() == component.VoltageSource {
			a.sources = append(a.sources, c)
		}
	}

	sys, err := matrix.NewSystem(a.n + len(a.sources))
	if err != nil {
		return nil, err
	}
	// Sweeps and transient loops restamp this system after it has been
	// factored once, so the element set must exist before the first solve.
	sys.SetupElements()
	a.sys = sys

	return a, nil
}

func (a *assembler) destroy() {
	if a.sys != nil {
		a.sys.Destroy()
	}
}

// index maps a component pin to its matrix row, 0 meaning ground (row
// eliminated).
func (a *assembler) index(c *component.Component, pin int) int {
	node := c.Node(pin)
	if node == a.g.Ground() {
		return 0
	}
	return a.nodeIdx[node]
}

func (a *assembler) branchIndex(source int) int { return a.n + 1 + source }

// stampAdmittance adds the standard nodal stamp for admittance y between the
// matrix rows n1 and n2; ground rows are omitted.
func (a *assembler) stampAdmittance(n1, n2 int, y complex128) {
	if n1 != 0 {
		a.sys.AddElement(n1, n1, y)
		if n2 != 0 {
			a.sys.AddElement(n1, n2, -y)
		}
	}
	if n2 != 0 {
		a.sys.AddElement(n2, n2, y)
		if n1 != 0 {
			a.sys.AddElement(n2, n1, -y)
		}
	}
}

func (a *assembler) stampSourceBranch(bIdx, n1, n2 int, value complex128) {
	if n1 != 0 {
		a.sys.AddElement(n1, bIdx, 1)
		a.sys.AddElement(bIdx, n1, 1)
	}
	if n2 != 0 {
		a.sys.AddElement(n2, bIdx, -1)
		a.sys.AddElement(bIdx, n2, -1)
	}
	a.sys.AddRHS(bIdx, value)
}

func (a *assembler) stampInjection(n1, n2 int, current complex128) {
	if n1 != 0 {
		a.sys.AddRHS(n1, current)
	}
	if n2 != 0 {
		a.sys.AddRHS(n2, -current)
	}
}

func admittance(z complex128) complex128 {
	if cmplx.IsInf(z) || cmplx.IsNaN(z) {
		return 0 // open branch
	}
	if cmplx.Abs(z) < minImpedance {
		z = complex(minImpedance, 0)
	}
	return 1 / z
}

// stampFrequency builds the system for a DC (freq 0) or AC analysis point:
// admittance stamps from each component's impedance, branch constraints per
// voltage source, RHS injection per current source.
func (a *assembler) stampFrequency(freq float64) {
	a.sys.Clear()

	src := 0
	for _, c := range a.g.Components() {
		n1 := a.index(c, 0)
		n2 := 0
		if len(c.Pins()) > 1 {
			n2 = a.index(c, 1)
		}

		switch c.Kind() {
		case component.VoltageSource:
			a.stampSourceBranch(a.branchIndex(src), n1, n2, c.SourcePhasor())
			src++
		case component.CurrentSource:
			a.stampInjection(n1, n2, c.SourcePhasor())
		default:
			a.stampAdmittance(n1, n2, admittance(c.Impedance(freq)))
		}
	}
}

// stampTransient builds the system for one fixed time step at absolute time
// t: energy-storing elements contribute their backward-Euler companion
// models, sources their instantaneous values.
func (a *assembler) stampTransient(t, dt float64) {
	a.sys.Clear()

	src := 0
	for _, c := range a.g.Components() {
		n1 := a.index(c, 0)
		n2 := 0
		if len(c.Pins()) > 1 {
			n2 = a.index(c, 1)
		}

		switch c.Kind() {
		case component.VoltageSource:
			a.stampSourceBranch(a.branchIndex(src), n1, n2, complex(c.SourceValue(t), 0))
			src++
		case component.CurrentSource:
			a.stampInjection(n1, n2, complex(c.SourceValue(t), 0))
		case component.Capacitor:
			geq := c.Param("capacitance") / dt
			a.stampAdmittance(n1, n2, complex(geq, 0))
			a.stampInjection(n1, n2, complex(geq*c.LastVoltage(), 0))
		case component.Inductor:
			geq := dt / c.Param("inductance")
			a.stampAdmittance(n1, n2, complex(geq, 0))
			a.stampInjection(n1, n2, complex(-c.LastCurrent(), 0))
		default:
			a.stampAdmittance(n1, n2, admittance(c.Impedance(0)))
		}
	}
}

// solve factors and solves the assembled system without touching the graph.
func (a *assembler) solve() ([]complex128, error) {
	x, err := a.sys.Solve()
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) {
			return nil, &SingularError{Err: err}
		}
		return nil, err
	}
	return x, nil
}

// apply writes a solution back: non-ground node voltages into the graph,
// branch currents into the voltage sources.
func (a *assembler) apply(x []complex128) {
	for node := 0; node < a.g.NumNodes(); node++ {
		if node == a.g.Ground() {
			a.g.SetNodeVoltage(node, 0)
			continue
		}
		a.g.SetNodeVoltage(node, x[a.nodeIdx[node]])
	}
	for i, s := range a.sources {
		s.SetBranchCurrent(x[a.branchIndex(i)])
	}
}
