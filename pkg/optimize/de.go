package optimize

// DEConfig drives differential evolution, DE/rand/1/bin: mutate with
// F·(x_r2 − x_r3) added to x_r1 over three mutually distinct non-current
// indices, then binomial crossover at rate CR with one forced gene.
type DEConfig struct {
	Population  int
	Generations int
	F           float64
	CR          float64
}

func (cfg DEConfig) withDefaults() DEConfig {
	if cfg.Population <= 0 {
		cfg.Population = 40
	}
	if cfg.Generations <= 0 {
		cfg.Generations = 100
	}
	if cfg.F <= 0 {
		cfg.F = 0.8
	}
	if cfg.CR <= 0 {
		cfg.CR = 0.9
	}
	return cfg
}

// Optimize runs differential evolution with greedy selection per slot.
func (cfg DEConfig) Optimize(p *Problem) (*Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if cfg.Population < 4 {
		cfg.Population = 4 // r1, r2, r3 and the current index must differ
	}

	dim := p.dim()
	pop := make([][]float64, cfg.Population)
	fit := make([]float64, cfg.Population)
	for i := range pop {
		pop[i] = p.randomVector()
		fit[i] = p.Fitness(pop[i])
	}

	bestIdx := 0
	for i := 1; i < len(fit); i++ {
		if fit[i] > fit[bestIdx] {
			bestIdx = i
		}
	}
	best := make([]float64, dim)
	copy(best, pop[bestIdx])
	bestFit := fit[bestIdx]

	trial := make([]float64, dim)
	sinceImproved := 0
	for gen := 0; gen < cfg.Generations; gen++ {
		improved := false
		for i := range pop {
			r1, r2, r3 := distinctIndices(p, len(pop), i)

			forced := p.rng.Intn(dim)
			for d := 0; d < dim; d++ {
				if d == forced || p.rng.Float64() < cfg.CR {
					trial[d] = pop[r1][d] + cfg.F*(pop[r2][d]-pop[r3][d])
				} else {
					trial[d] = pop[i][d]
				}
			}
			p.clampVector(trial)

			f := p.Fitness(trial)
			if f > fit[i] {
				copy(pop[i], trial)
				fit[i] = f
				if f > bestFit {
					bestFit = f
					copy(best, trial)
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

// distinctIndices draws three population indices, all different from each
// other and from current.
func distinctIndices(p *Problem, n, current int) (int, int, int) {
	pick := func(taken ...int) int {
		for {
			c := p.rng.Intn(n)
			ok := c != current
			for _, t := range taken {
				if c == t {
					ok = false
				}
			}
			if ok {
				return c
			}
		}
	}
	r1 := pick()
	r2 := pick(r1)
	r3 := pick(r1, r2)
	return r1, r2, r3
}
