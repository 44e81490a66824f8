package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"rfsim/pkg/circuit"
	"rfsim/pkg/component"
)

// sensitivityStep is the relative perturbation applied to each parameter.
const sensitivityStep = 0.01

// SensitivityResult reports how strongly the observed voltage magnitude
// depends on one component parameter. Sensitivity is normalized:
// (dM/M)/(dp/p). WorstCase is the fractional output deviation expected at
// the given component tolerance.
type SensitivityResult struct {
	Component   string
	Param       string
	Nominal     float64
	Sensitivity float64
	Tolerance   float64
	WorstCase   float64
}

// valueParam names the perturbable value parameter per component kind.
// Kinds without a single dominant value are left out of the sweep.
func valueParam(k component.Kind) string {
	switch k {
	case component.Resistor:
		return "resistance"
	case component.Capacitor:
		return "capacitance"
	case component.Inductor:
		return "inductance"
	}
	return ""
}

// Sensitivity perturbs each passive value by one percent, re-solves at freq
// and reports the normalized sensitivity of |V(observe)| along with the
// worst-case deviation at the given fractional tolerance.
func Sensitivity(g *circuit.Graph, observe int, freq float64, tolerance float64) ([]SensitivityResult, error) {
	if observe < 0 || observe >= g.NumNodes() {
		return nil, fmt.Errorf("sensitivity: unknown node %d", observe)
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("sensitivity: tolerance must be non-negative, got %g", tolerance)
	}

	a, err := newAssembler(g)
	if err != nil {
		return nil, err
	}
	defer a.destroy()

	solveAt := func() (float64, error) {
		a.stampFrequency(freq)
		x, err := a.solve()
		if err != nil {
			return 0, err
		}
		if observe == g.Ground() {
			return 0, nil
		}
		return cmplx.Abs(x[a.nodeIdx[observe]]), nil
	}

	base, err := solveAt()
	if err != nil {
		return nil, err
	}
	if base == 0 {
		return nil, fmt.Errorf("sensitivity: observed node %d has zero response", observe)
	}

	var out []SensitivityResult
	for _, c := range g.Components() {
		param := valueParam(c.Kind())
		if param == "" {
			continue
		}

		nominal := c.Param(param)
		if err := c.SetParam(param, nominal*(1+sensitivityStep)); err != nil {
			return nil, err
		}
		perturbed, solveErr := solveAt()
		if err := c.SetParam(param, nominal); err != nil {
			return nil, err
		}
		if solveErr != nil {
			return nil, solveErr
		}

		s := (perturbed - base) / base / sensitivityStep
		out = append(out, SensitivityResult{
			Component:   c.Name(),
			Param:       param,
			Nominal:     nominal,
			Sensitivity: s,
			Tolerance:   tolerance,
			WorstCase:   math.Abs(s) * tolerance,
		})
	}
	return out, nil
}
