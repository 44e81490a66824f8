package analysis

import (
	"errors"
	"fmt"

	"rfsim/pkg/circuit"
)

// TranConfig describes a fixed-step transient run from t=0 to StopTime.
type TranConfig struct {
	StopTime float64
	TimeStep float64
}

func (cfg TranConfig) validate() error {
	if cfg.TimeStep <= 0 {
		return fmt.Errorf("transient: time step must be positive, got %g", cfg.TimeStep)
	}
	if cfg.StopTime < cfg.TimeStep {
		return fmt.Errorf("transient: stop time %g below one step %g", cfg.StopTime, cfg.TimeStep)
	}
	return nil
}

// TranResult holds the final solution. Intermediate steps are observable
// through component state (charge, flux) or by sampling per step.
type TranResult struct {
	Time     float64
	Voltages []complex128
	Steps    int
}

// Transient runs the fixed-step loop: solve the companion-model system at
// each step, write voltages back, then advance every component's state by
// exactly one step. The optional sample callback observes each solved step.
func Transient(g *circuit.Graph, cfg TranConfig, sample func(t float64, voltages []complex128)) (*TranResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a, err := newAssembler(g)
	if err != nil {
		return nil, err
	}
	defer a.destroy()

	for _, c := range g.Components() {
		c.SetFrequency(0)
	}

	dt := cfg.TimeStep
	steps := 0
	t := 0.0
	for t < cfg.StopTime {
		a.stampTransient(t, dt)
		x, err := a.solve()
		if err != nil {
			var sing *SingularError
			if errors.As(err, &sing) {
				return nil, &SingularError{Time: t, Err: sing.Err}
			}
			return nil, err
		}
		a.apply(x)

		for _, c := range g.Components() {
			c.AdvanceState(dt)
		}

		t += dt
		steps++

		if sample != nil {
			sample(t, g.NodeVoltages())
		}
	}

	return &TranResult{Time: t, Voltages: g.NodeVoltages(), Steps: steps}, nil
}
