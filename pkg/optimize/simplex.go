package optimize

import "sort"

// NMConfig drives Nelder-Mead simplex search with the classic
// reflect/expand/contract/shrink coefficients. The run converges when the
// fitness spread across the simplex drops below Tolerance.
type NMConfig struct {
	Iterations int
	Tolerance  float64
}

func (cfg NMConfig) withDefaults() NMConfig {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 200
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-9
	}
	return cfg
}

const (
	nmReflect  = 1.0
	nmExpand   = 2.0
	nmContract = 0.5
	nmShrink   = 0.5
)

type vertex struct {
	x   []float64
	fit float64
}

// Optimize runs the simplex from a random starting point with small offsets
// along each dimension.
func (cfg NMConfig) Optimize(p *Problem) (*Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	dim := p.dim()
	verts := make([]vertex, dim+1)

	origin := p.randomVector()
	verts[0] = vertex{x: origin, fit: p.Fitness(origin)}
	for d := 0; d < dim; d++ {
		x := make([]float64, dim)
		copy(x, origin)
		x[d] += 0.05 * (p.params[d].Max - p.params[d].Min)
		p.clampVector(x)
		verts[d+1] = vertex{x: x, fit: p.Fitness(x)}
	}

	converged := false
	for it := 0; it < cfg.Iterations; it++ {
		// Best first, worst last.
		sort.Slice(verts, func(i, j int) bool { return verts[i].fit > verts[j].fit })

		if verts[0].fit-verts[dim].fit < cfg.Tolerance {
			converged = true
			break
		}

		// Centroid of all but the worst vertex.
		centroid := make([]float64, dim)
		for _, v := range verts[:dim] {
			for d := range centroid {
				centroid[d] += v.x[d] / float64(dim)
			}
		}

		worst := &verts[dim]
		refl := combine(p, centroid, worst.x, nmReflect)
		reflFit := p.Fitness(refl)

		switch {
		case reflFit > verts[0].fit:
			// Best so far: try to expand further out.
			exp := combine(p, centroid, worst.x, nmExpand)
			if expFit := p.Fitness(exp); expFit > reflFit {
				*worst = vertex{x: exp, fit: expFit}
			} else {
				*worst = vertex{x: refl, fit: reflFit}
			}

		case reflFit > verts[dim-1].fit:
			*worst = vertex{x: refl, fit: reflFit}

		default:
			con := combine(p, centroid, worst.x, -nmContract)
			if conFit := p.Fitness(con); conFit > worst.fit {
				*worst = vertex{x: con, fit: conFit}
			} else {
				// Shrink everything toward the best vertex.
				for i := 1; i < len(verts); i++ {
					for d := range verts[i].x {
						verts[i].x[d] = verts[0].x[d] + nmShrink*(verts[i].x[d]-verts[0].x[d])
					}
					p.clampVector(verts[i].x)
					verts[i].fit = p.Fitness(verts[i].x)
				}
			}
		}
	}

	sort.Slice(verts, func(i, j int) bool { return verts[i].fit > verts[j].fit })
	return p.result(verts[0].x, verts[0].fit, converged), nil
}

// combine builds centroid + coeff·(centroid − away), clamped to bounds.
func combine(p *Problem, centroid, away []float64, coeff float64) []float64 {
	x := make([]float64, len(centroid))
	for d := range x {
		x[d] = centroid[d] + coeff*(centroid[d]-away[d])
	}
	p.clampVector(x)
	return x
}
