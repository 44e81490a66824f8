package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"rfsim/pkg/circuit"
)

// TwoPort names the input and output nets of a two-port measurement and the
// reference impedance for S-parameter conversion.
type TwoPort struct {
	Input  int
	Output int
	Z0     float64
}

func (tp TwoPort) validate(g *circuit.Graph) error {
	for _, n := range []int{tp.Input, tp.Output} {
		if n < 0 || n >= g.NumNodes() {
			return fmt.Errorf("two-port: unknown node %d", n)
		}
		if n == g.Ground() {
			return fmt.Errorf("two-port: port node %d is ground", n)
		}
	}
	if tp.Z0 <= 0 {
		return fmt.Errorf("two-port: reference impedance must be positive, got %g", tp.Z0)
	}
	return nil
}

// ZParameters measures the open-circuit impedance matrix by injecting a unit
// current into each port in turn: Zij = Vi with Ij = 1, other port open.
func ZParameters(g *circuit.Graph, tp TwoPort, freq float64) ([2][2]complex128, error) {
	var z [2][2]complex128

	if err := tp.validate(g); err != nil {
		return z, err
	}

	a, err := newAssembler(g)
	if err != nil {
		return z, err
	}
	defer a.destroy()

	ports := [2]int{tp.Input, tp.Output}
	for j, port := range ports {
		a.stampFrequency(freq)
		a.sys.AddRHS(a.nodeIdx[port], 1)

		x, err := a.solve()
		if err != nil {
			return z, &SingularError{Freq: freq, Err: err}
		}

		z[0][j] = x[a.nodeIdx[tp.Input]]
		z[1][j] = x[a.nodeIdx[tp.Output]]
	}

	return z, nil
}

// SParameters converts the measured Z-parameters to scattering parameters at
// the two-port's reference impedance.
func SParameters(g *circuit.Graph, tp TwoPort, freq float64) ([2][2]complex128, error) {
	var s [2][2]complex128

	z, err := ZParameters(g, tp, freq)
	if err != nil {
		return s, err
	}

	z0 := complex(tp.Z0, 0)
	den := (z[0][0]+z0)*(z[1][1]+z0) - z[0][1]*z[1][0]
	if den == 0 {
		return s, &SingularError{Freq: freq, Err: fmt.Errorf("z-to-s conversion is degenerate")}
	}

	s[0][0] = ((z[0][0]-z0)*(z[1][1]+z0) - z[0][1]*z[1][0]) / den
	s[0][1] = 2 * z0 * z[0][1] / den
	s[1][0] = 2 * z0 * z[1][0] / den
	s[1][1] = ((z[0][0]+z0)*(z[1][1]-z0) - z[0][1]*z[1][0]) / den

	return s, nil
}

// StabilityMetrics are the Rollett K factor, |Δ| and the µ measures at one
// frequency. Unconditional stability requires K > 1 and |Δ| < 1.
type StabilityMetrics struct {
	Freq     float64
	K        float64
	DeltaMag float64
	MuSource float64
	MuLoad   float64
	Stable   bool
}

// Stability computes the stability metrics of the two-port at freq.
func Stability(g *circuit.Graph, tp TwoPort, freq float64) (*StabilityMetrics, error) {
	s, err := SParameters(g, tp, freq)
	if err != nil {
		return nil, err
	}

	s11sq := norm(s[0][0])
	s22sq := norm(s[1][1])
	s21s12 := cmplx.Abs(s[1][0]) * cmplx.Abs(s[0][1])

	delta := s[0][0]*s[1][1] - s[1][0]*s[0][1]
	deltaSq := norm(delta)

	m := &StabilityMetrics{Freq: freq, DeltaMag: math.Sqrt(deltaSq)}

	if s21s12 > 0 {
		m.K = (1 - s11sq - s22sq + deltaSq) / (2 * s21s12)
	} else {
		m.K = math.Inf(1) // unilateral network
	}

	crossMag := cmplx.Abs(s[1][0] * s[0][1])
	if d := cmplx.Abs(s[1][1]-cmplx.Conj(delta)*s[0][0]) + crossMag; d > 0 {
		m.MuSource = (1 - s11sq) / d
	}
	if d := cmplx.Abs(s[0][0]-cmplx.Conj(delta)*s[1][1]) + crossMag; d > 0 {
		m.MuLoad = (1 - s22sq) / d
	}

	m.Stable = m.K > 1 && deltaSq < 1
	return m, nil
}

// StabilitySweep evaluates the metrics over a log frequency grid, skipping
// singular points the way the AC sweep does.
func StabilitySweep(g *circuit.Graph, tp TwoPort, cfg ACConfig) ([]StabilityMetrics, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var out []StabilityMetrics
	for _, freq := range cfg.Frequencies() {
		m, err := Stability(g, tp, freq)
		if err != nil {
			var sing *SingularError
			if errors.As(err, &sing) {
				continue
			}
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func norm(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
