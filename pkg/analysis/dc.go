package analysis

import (
	"rfsim/pkg/circuit"
)

// DCResult holds the operating point: node voltages in creation order with
// ground excluded, and the branch current of each voltage source by name.
type DCResult struct {
	Voltages       []complex128
	SourceCurrents map[string]complex128
}

// DC assembles and solves the circuit once at zero frequency.
func DC(g *circuit.Graph) (*DCResult, error) {
	a, err := newAssembler(g)
	if err != nil {
		return nil, err
	}
	defer a.destroy()

	for _, c := range g.Components() {
		c.SetFrequency(0)
	}

	a.stampFrequency(0)
	x, err := a.solve()
	if err != nil {
		return nil, err
	}
	a.apply(x)

	res := &DCResult{
		Voltages:       g.NodeVoltages(),
		SourceCurrents: make(map[string]complex128),
	}
	for _, s := range a.sources {
		res.SourceCurrents[s.Name()] = s.BranchCurrent()
	}
	return res, nil
}
