package optimize

// PSOConfig drives particle swarm optimization with an inertia + cognitive +
// social velocity update per dimension. Velocities and positions are clamped
// to the parameter bounds.
type PSOConfig struct {
	Particles  int
	Iterations int
	Inertia    float64
	Cognitive  float64
	Social     float64
}

func (cfg PSOConfig) withDefaults() PSOConfig {
	if cfg.Particles <= 0 {
		cfg.Particles = 30
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 100
	}
	if cfg.Inertia <= 0 {
		cfg.Inertia = 0.7
	}
	if cfg.Cognitive <= 0 {
		cfg.Cognitive = 1.4
	}
	if cfg.Social <= 0 {
		cfg.Social = 1.4
	}
	return cfg
}

// Optimize runs the swarm and returns the global best.
func (cfg PSOConfig) Optimize(p *Problem) (*Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	dim := p.dim()
	pos := make([][]float64, cfg.Particles)
	vel := make([][]float64, cfg.Particles)
	pbest := make([][]float64, cfg.Particles)
	pbestFit := make([]float64, cfg.Particles)

	gbest := make([]float64, dim)
	gbestFit := 0.0

	for i := 0; i < cfg.Particles; i++ {
		pos[i] = p.randomVector()
		vel[i] = make([]float64, dim)
		for d, prm := range p.params {
			span := prm.Max - prm.Min
			vel[i][d] = (p.rng.Float64()*2 - 1) * span / 10
		}

		pbest[i] = make([]float64, dim)
		copy(pbest[i], pos[i])
		pbestFit[i] = p.Fitness(pos[i])

		if i == 0 || pbestFit[i] > gbestFit {
			gbestFit = pbestFit[i]
			copy(gbest, pos[i])
		}
	}

	sinceImproved := 0
	for it := 0; it < cfg.Iterations; it++ {
		improved := false
		for i := 0; i < cfg.Particles; i++ {
			for d, prm := range p.params {
				r1 := p.rng.Float64()
				r2 := p.rng.Float64()
				vel[i][d] = cfg.Inertia*vel[i][d] +
					cfg.Cognitive*r1*(pbest[i][d]-pos[i][d]) +
					cfg.Social*r2*(gbest[d]-pos[i][d])

				span := prm.Max - prm.Min
				vel[i][d] = clamp(vel[i][d], -span, span)
				pos[i][d] = clamp(pos[i][d]+vel[i][d], prm.Min, prm.Max)
			}

			f := p.Fitness(pos[i])
			if f > pbestFit[i] {
				pbestFit[i] = f
				copy(pbest[i], pos[i])
			}
			if f > gbestFit {
				gbestFit = f
				copy(gbest, pos[i])
				improved = true
			}
		}

		if improved {
			sinceImproved = 0
		} else {
			sinceImproved++
		}
	}

	return p.result(gbest, gbestFit, sinceImproved >= stagnation), nil
}
