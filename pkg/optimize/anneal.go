package optimize

import "math"

// SAConfig drives simulated annealing: a single-state random walk whose
// neighbor step shrinks with temperature, Metropolis acceptance and
// geometric cooling.
type SAConfig struct {
	InitialTemp float64
	FinalTemp   float64
	Cooling     float64
	StepsPerT   int
}

func (cfg SAConfig) withDefaults() SAConfig {
	if cfg.InitialTemp <= 0 {
		cfg.InitialTemp = 100
	}
	if cfg.FinalTemp <= 0 {
		cfg.FinalTemp = 1e-3
	}
	if cfg.Cooling <= 0 || cfg.Cooling >= 1 {
		cfg.Cooling = 0.95
	}
	if cfg.StepsPerT <= 0 {
		cfg.StepsPerT = 20
	}
	return cfg
}

// Optimize anneals from a random starting state and returns the best state
// visited, which may differ from the final accepted state.
func (cfg SAConfig) Optimize(p *Problem) (*Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	cur := p.randomVector()
	curFit := p.Fitness(cur)

	best := make([]float64, p.dim())
	copy(best, cur)
	bestFit := curFit

	cand := make([]float64, p.dim())
	sinceImproved := 0
	for temp := cfg.InitialTemp; temp > cfg.FinalTemp; temp *= cfg.Cooling {
		improved := false
		for s := 0; s < cfg.StepsPerT; s++ {
			for d, prm := range p.params {
				span := prm.Max - prm.Min
				step := (p.rng.Float64()*2 - 1) * span * temp / cfg.InitialTemp
				cand[d] = clamp(cur[d]+step, prm.Min, prm.Max)
			}

			f := p.Fitness(cand)
			if accept(p, f-curFit, temp) {
				copy(cur, cand)
				curFit = f
				if f > bestFit {
					bestFit = f
					copy(best, cand)
					improved = true
				}
			}
		}

		if improved {
			sinceImproved = 0
		} else {
			sinceImproved++
		}
	}

	return p.result(best, bestFit, sinceImproved >= stagnation), nil
}

// accept implements the Metropolis criterion for a fitness delta (higher
// fitness is better).
func accept(p *Problem, delta, temp float64) bool {
	if delta > 0 {
		return true
	}
	return p.rng.Float64() < math.Exp(delta/temp)
}
