package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"rfsim/pkg/analysis"
	"rfsim/pkg/circuit"
	"rfsim/pkg/component"
)

// Response is the swept transfer function of a doubly-terminated ladder:
// magnitude in dB relative to the source, unwrapped phase in degrees, and
// group delay in seconds from the finite-difference phase derivative.
type Response struct {
	Frequencies []float64
	MagnitudeDB []float64
	PhaseDeg    []float64
	GroupDelay  []float64
}

// Bench registers the ladder into a fresh circuit between a unit source with
// source termination and a load termination, both at the design impedance.
// It returns the graph and the load node to observe.
func (l *Ladder) Bench() (*circuit.Graph, int, error) {
	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		return nil, 0, err
	}

	in := g.Node()
	src, err := component.NewVoltageSource("Vs", 1, 0)
	if err != nil {
		return nil, 0, err
	}
	if err := g.Add(src, in, gnd); err != nil {
		return nil, 0, err
	}

	cur := g.Node()
	rs, err := component.NewResistor("Rs", l.Spec.Impedance)
	if err != nil {
		return nil, 0, err
	}
	if err := g.Add(rs, in, cur); err != nil {
		return nil, 0, err
	}

	for _, sec := range l.Sections {
		var err error
		cur, err = wireSection(g, sec, cur, gnd)
		if err != nil {
			return nil, 0, err
		}
	}

	rl, err := component.NewResistor("RL", l.Spec.Impedance)
	if err != nil {
		return nil, 0, err
	}
	if err := g.Add(rl, cur, gnd); err != nil {
		return nil, 0, err
	}

	return g, cur, nil
}

// wireSection connects one ladder section at the line node and returns the
// node the line continues from.
func wireSection(g *circuit.Graph, sec Section, line, gnd int) (int, error) {
	from, to := line, 0
	if sec.Shunt {
		to = gnd
	} else {
		to = g.Node()
	}

	if sec.Parallel || len(sec.Parts) == 1 {
		for _, p := range sec.Parts {
			if err := g.Add(p, from, to); err != nil {
				return 0, err
			}
		}
	} else {
		node := from
		for i, p := range sec.Parts {
			next := to
			if i < len(sec.Parts)-1 {
				next = g.Node()
			}
			if err := g.Add(p, node, next); err != nil {
				return 0, err
			}
			node = next
		}
	}

	if sec.Shunt {
		return line, nil
	}
	return to, nil
}

// Response sweeps the terminated ladder over a log frequency grid. Sweep
// points whose system is singular are dropped from the output.
func (l *Ladder) Response(startFreq, stopFreq float64, points int) (*Response, error) {
	g, out, err := l.Bench()
	if err != nil {
		return nil, err
	}

	res, err := analysis.AC(g, analysis.ACConfig{
		StartFreq: startFreq,
		StopFreq:  stopFreq,
		Points:    points,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Points) == 0 {
		return nil, fmt.Errorf("filter response: no solvable sweep points in [%g, %g]", startFreq, stopFreq)
	}

	// Node voltages exclude ground and keep creation order; ground is the
	// first node of the bench, so node k maps to slot k-1.
	slot := out - 1

	r := &Response{
		Frequencies: make([]float64, len(res.Points)),
		MagnitudeDB: make([]float64, len(res.Points)),
		PhaseDeg:    make([]float64, len(res.Points)),
		GroupDelay:  make([]float64, len(res.Points)),
	}

	prev := 0.0
	for i, pt := range res.Points {
		v := pt.Voltages[slot]
		r.Frequencies[i] = pt.Freq

		mag := cmplx.Abs(v)
		if mag <= 0 {
			r.MagnitudeDB[i] = math.Inf(-1)
		} else {
			r.MagnitudeDB[i] = 20 * math.Log10(mag)
		}

		phase := cmplx.Phase(v) * 180 / math.Pi
		if i > 0 {
			for phase-prev > 180 {
				phase -= 360
			}
			for phase-prev < -180 {
				phase += 360
			}
		}
		r.PhaseDeg[i] = phase
		prev = phase
	}

	for i := range r.GroupDelay {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi >= len(r.PhaseDeg) {
			hi = len(r.PhaseDeg) - 1
		}
		df := r.Frequencies[hi] - r.Frequencies[lo]
		if df > 0 {
			r.GroupDelay[i] = -(r.PhaseDeg[hi] - r.PhaseDeg[lo]) / (360 * df)
		}
	}

	return r, nil
}

// Bandwidth locates the -3 dB edges relative to the response maximum by
// linear interpolation and derives the bandwidth and Q factor. Edges that
// never cross fall back to the sweep limits.
func (r *Response) Bandwidth() (low, high, bw, q float64) {
	if len(r.MagnitudeDB) == 0 {
		return 0, 0, 0, 0
	}

	peak := 0
	for i, m := range r.MagnitudeDB {
		if m > r.MagnitudeDB[peak] {
			peak = i
		}
	}
	edge := r.MagnitudeDB[peak] - 3

	low = r.Frequencies[0]
	for i := peak; i > 0; i-- {
		if r.MagnitudeDB[i-1] < edge {
			low = crossing(r.Frequencies[i-1], r.Frequencies[i], r.MagnitudeDB[i-1], r.MagnitudeDB[i], edge)
			break
		}
	}

	high = r.Frequencies[len(r.Frequencies)-1]
	for i := peak; i < len(r.MagnitudeDB)-1; i++ {
		if r.MagnitudeDB[i+1] < edge {
			high = crossing(r.Frequencies[i], r.Frequencies[i+1], r.MagnitudeDB[i], r.MagnitudeDB[i+1], edge)
			break
		}
	}

	bw = high - low
	if bw > 0 {
		q = math.Sqrt(low*high) / bw
	}
	return low, high, bw, q
}

func crossing(f1, f2, m1, m2, level float64) float64 {
	if m2 == m1 {
		return f2
	}
	return f1 + (f2-f1)*(level-m1)/(m2-m1)
}
