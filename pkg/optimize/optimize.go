// Package optimize searches circuit parameter spaces against weighted
// objectives. A Problem owns the parameters, the objectives and a black-box
// measurement function; five interchangeable strategies (genetic algorithm,
// particle swarm, differential evolution, simulated annealing, Nelder-Mead)
// work purely in terms of the resulting fitness function and the bounds.
package optimize

import (
	"fmt"
	"math"
	"math/rand"
)

// Goal is the direction of one objective.
type Goal int

const (
	Minimize Goal = iota
	Maximize
	Target
)

// Parameter is one search dimension with inclusive bounds. Value is the
// starting point and, after a run, the best found value.
type Parameter struct {
	Name  string
	Min   float64
	Max   float64
	Value float64
}

// Objective scores one measurement. Target is only read when Goal is Target.
type Objective struct {
	Name   string
	Goal   Goal
	Target float64
	Weight float64
}

// MeasureFunc maps a candidate parameter set to one measurement per
// objective, in objective order. In practice it applies the values to a
// circuit and re-runs an analysis.
type MeasureFunc func(params []Parameter) []float64

// Problem is the shared state of every strategy. Strategies never mutate
// the parameter list; they read bounds and call Fitness.
type Problem struct {
	params     []Parameter
	objectives []Objective
	measure    MeasureFunc
	rng        *rand.Rand
	evals      int
}

// NewProblem creates an empty problem seeded for reproducible runs.
func NewProblem(seed int64) *Problem {
	return &Problem{rng: rand.New(rand.NewSource(seed))}
}

// AddParameter registers a bounded search dimension. The initial value is
// clamped into the bounds.
func (p *Problem) AddParameter(name string, min, max, initial float64) error {
	if name == "" {
		return fmt.Errorf("optimize: parameter name must not be empty")
	}
	if !(min < max) {
		return fmt.Errorf("optimize: parameter %s needs min < max, got [%g, %g]", name, min, max)
	}
	p.params = append(p.params, Parameter{
		Name:  name,
		Min:   min,
		Max:   max,
		Value: clamp(initial, min, max),
	})
	return nil
}

// AddObjective registers a weighted objective term.
func (p *Problem) AddObjective(name string, goal Goal, target, weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("optimize: objective %s needs a positive weight, got %g", name, weight)
	}
	p.objectives = append(p.objectives, Objective{Name: name, Goal: goal, Target: target, Weight: weight})
	return nil
}

// SetMeasurement installs the black-box measurement function.
func (p *Problem) SetMeasurement(fn MeasureFunc) { p.measure = fn }

func (p *Problem) Parameters() []Parameter { return p.params }
func (p *Problem) Evaluations() int        { return p.evals }

func (p *Problem) ready() error {
	if len(p.params) == 0 {
		return fmt.Errorf("optimize: no parameters registered")
	}
	if len(p.objectives) == 0 {
		return fmt.Errorf("optimize: no objectives registered")
	}
	if p.measure == nil {
		return fmt.Errorf("optimize: no measurement function set")
	}
	return nil
}

func (p *Problem) dim() int { return len(p.params) }

// Fitness evaluates a candidate: higher is better. Minimize subtracts the
// raw measurement, Maximize adds it, Target subtracts the absolute deviation
// from the target, each scaled by the objective weight.
func (p *Problem) Fitness(values []float64) float64 {
	cand := make([]Parameter, len(p.params))
	copy(cand, p.params)
	for i := range cand {
		cand[i].Value = clamp(values[i], cand[i].Min, cand[i].Max)
	}

	p.evals++
	measured := p.measure(cand)

	fitness := 0.0
	for i, obj := range p.objectives {
		if i >= len(measured) {
			break
		}
		m := measured[i]
		switch obj.Goal {
		case Minimize:
			fitness -= obj.Weight * m
		case Maximize:
			fitness += obj.Weight * m
		case Target:
			fitness -= obj.Weight * math.Abs(m-obj.Target)
		}
	}
	return fitness
}

// randomVector draws a uniform candidate inside the bounds.
func (p *Problem) randomVector() []float64 {
	v := make([]float64, p.dim())
	for i, prm := range p.params {
		v[i] = prm.Min + p.rng.Float64()*(prm.Max-prm.Min)
	}
	return v
}

// clampVector forces every gene into its bounds, in place.
func (p *Problem) clampVector(v []float64) {
	for i, prm := range p.params {
		v[i] = clamp(v[i], prm.Min, prm.Max)
	}
}

// stagnation is the number of consecutive non-improving iterations after
// which the iterative strategies report convergence.
const stagnation = 10

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Result is the best candidate a strategy found. Converged reports whether
// the strategy met its own stopping criterion; a false value still carries
// the best candidate seen.
type Result struct {
	Values      map[string]float64
	Fitness     float64
	Evaluations int
	Converged   bool
}

func (p *Problem) result(best []float64, fitness float64, converged bool) *Result {
	values := make(map[string]float64, len(p.params))
	for i, prm := range p.params {
		values[prm.Name] = clamp(best[i], prm.Min, prm.Max)
	}
	return &Result{
		Values:      values,
		Fitness:     fitness,
		Evaluations: p.evals,
		Converged:   converged,
	}
}
