package optimize

// GAConfig drives the genetic algorithm: tournament selection, uniform
// per-gene crossover, uniform mutation. The best-seen individual is always
// retained.
type GAConfig struct {
	Population    int
	Generations   int
	CrossoverRate float64
	MutationRate  float64
}

func (cfg GAConfig) withDefaults() GAConfig {
	if cfg.Population <= 0 {
		cfg.Population = 50
	}
	if cfg.Generations <= 0 {
		cfg.Generations = 100
	}
	if cfg.CrossoverRate <= 0 {
		cfg.CrossoverRate = 0.8
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = 0.1
	}
	return cfg
}

const tournamentSize = 3

// Optimize runs the genetic algorithm and returns the best individual seen
// across all generations.
func (cfg GAConfig) Optimize(p *Problem) (*Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	pop := make([][]float64, cfg.Population)
	fit := make([]float64, cfg.Population)
	for i := range pop {
		pop[i] = p.randomVector()
		fit[i] = p.Fitness(pop[i])
	}

	best := make([]float64, p.dim())
	bestFit := fit[0]
	copy(best, pop[0])
	for i := 1; i < len(pop); i++ {
		if fit[i] > bestFit {
			bestFit = fit[i]
			copy(best, pop[i])
		}
	}

	sinceImproved := 0
	for gen := 0; gen < cfg.Generations; gen++ {
		next := make([][]float64, cfg.Population)
		for i := range next {
			a := pop[tournament(p, fit)]
			b := pop[tournament(p, fit)]

			child := make([]float64, p.dim())
			for d := range child {
				if p.rng.Float64() < cfg.CrossoverRate {
					child[d] = a[d]
				} else {
					child[d] = b[d]
				}
				if p.rng.Float64() < cfg.MutationRate {
					prm := p.params[d]
					child[d] = prm.Min + p.rng.Float64()*(prm.Max-prm.Min)
				}
			}
			next[i] = child
		}

		pop = next
		improved := false
		for i := range pop {
			fit[i] = p.Fitness(pop[i])
			if fit[i] > bestFit {
				bestFit = fit[i]
				copy(best, pop[i])
				improved = true
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

// tournament picks the fittest of tournamentSize random individuals.
func tournament(p *Problem, fit []float64) int {
	winner := p.rng.Intn(len(fit))
	for i := 1; i < tournamentSize; i++ {
		c := p.rng.Intn(len(fit))
		if fit[c] > fit[winner] {
			winner = c
		}
	}
	return winner
}
