package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"rfsim/pkg/circuit"
)

// ACConfig describes a swept-frequency small-signal analysis over
// logarithmically spaced points.
type ACConfig struct {
	StartFreq float64
	StopFreq  float64
	Points    int
}

func (cfg ACConfig) validate() error {
	if cfg.StartFreq <= 0 {
		return fmt.Errorf("ac sweep: start frequency must be positive, got %g", cfg.StartFreq)
	}
	if cfg.StopFreq < cfg.StartFreq {
		return fmt.Errorf("ac sweep: stop frequency %g below start %g", cfg.StopFreq, cfg.StartFreq)
	}
	if cfg.Points < 2 {
		return fmt.Errorf("ac sweep: need at least 2 points, got %d", cfg.Points)
	}
	return nil
}

// Frequencies returns the sweep grid, ascending.
func (cfg ACConfig) Frequencies() []float64 {
	return floats.LogSpan(make([]float64, cfg.Points), cfg.StartFreq, cfg.StopFreq)
}

// ACPoint is the solution at one sweep frequency: node voltages in creation
// order, ground excluded.
type ACPoint struct {
	Freq     float64
	Voltages []complex128
}

// ACFailure records a sweep point whose system was singular. The sweep skips
// it and continues.
type ACFailure struct {
	Freq float64
	Err  error
}

type ACResult struct {
	Points   []ACPoint
	Failures []ACFailure
}

// AC runs the swept small-signal analysis. Structural problems abort the
// sweep; per-point singularities are recorded in Failures. The graph retains
// the solution of the last solved point.
func AC(g *circuit.Graph, cfg ACConfig) (*ACResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a, err := newAssembler(g)
	if err != nil {
		return nil, err
	}
	defer a.destroy()

	res := &ACResult{}
	for _, freq := range cfg.Frequencies() {
		a.stampFrequency(freq)
		x, err := a.solve()
		if err != nil {
			var sing *SingularError
			if errors.As(err, &sing) {
				res.Failures = append(res.Failures, ACFailure{
					Freq: freq,
					Err:  &SingularError{Freq: freq, Err: sing.Err},
				})
				continue
			}
			return nil, err
		}

		for _, c := range g.Components() {
			c.SetFrequency(freq)
		}
		a.apply(x)

		res.Points = append(res.Points, ACPoint{
			Freq:     freq,
			Voltages: g.NodeVoltages(),
		})
	}

	return res, nil
}
