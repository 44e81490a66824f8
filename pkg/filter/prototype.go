// Package filter synthesizes passive LC ladder filters: normalized prototype
// coefficients per approximation family, denormalization to a target cutoff
// and impedance, and a swept response with bandwidth and Q extraction.
package filter

import (
	"fmt"
	"math"
)

// Family selects the approximation polynomial of the prototype.
type Family int

const (
	Butterworth Family = iota
	ChebyshevI
	ChebyshevII
	Elliptic
	Bessel
)

var familyNames = map[Family]string{
	Butterworth: "butterworth",
	ChebyshevI:  "chebyshev-1",
	ChebyshevII: "chebyshev-2",
	Elliptic:    "elliptic",
	Bessel:      "bessel",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// besselTable holds normalized g-values for maximally flat delay prototypes,
// orders 1 through 8.
var besselTable = [][]float64{
	{2.0000},
	{1.5774, 0.4226},
	{1.2550, 0.5528, 0.1922},
	{1.0598, 0.5116, 0.3181, 0.1104},
	{0.9303, 0.4577, 0.3312, 0.2090, 0.0718},
	{0.8377, 0.4116, 0.3158, 0.2364, 0.1480, 0.0505},
	{0.7677, 0.3744, 0.2944, 0.2378, 0.1778, 0.1104, 0.0375},
	{0.7125, 0.3446, 0.2735, 0.2297, 0.1867, 0.1387, 0.0855, 0.0289},
}

// Prototype computes the normalized lowpass element coefficients g1..gN for
// the family. RippleDB is the passband ripple for Chebyshev-I and Elliptic
// and the stopband attenuation for Chebyshev-II.
func Prototype(family Family, order int, rippleDB float64) ([]float64, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter prototype: order must be at least 1, got %d", order)
	}

	switch family {
	case Butterworth:
		return butterworthCoeffs(order), nil
	case ChebyshevI:
		if rippleDB <= 0 {
			return nil, fmt.Errorf("filter prototype: chebyshev ripple must be positive, got %g dB", rippleDB)
		}
		return chebyshevCoeffs(order, rippleDB), nil
	case ChebyshevII:
		if rippleDB <= 0 {
			return nil, fmt.Errorf("filter prototype: stopband attenuation must be positive, got %g dB", rippleDB)
		}
		// Inverse Chebyshev: map the stopband attenuation to the
		// equivalent passband ripple of the dual response.
		eps := 1 / math.Sqrt(math.Pow(10, rippleDB/10)-1)
		effective := 10 * math.Log10(1+eps*eps)
		return chebyshevCoeffs(order, effective), nil
	case Elliptic:
		if rippleDB <= 0 {
			return nil, fmt.Errorf("filter prototype: elliptic ripple must be positive, got %g dB", rippleDB)
		}
		// Equal-ripple passband approximation; the transmission zeros of
		// a true Cauer ladder are not realized in the all-pole topology.
		return chebyshevCoeffs(order, rippleDB), nil
	case Bessel:
		if order > len(besselTable) {
			return nil, fmt.Errorf("filter prototype: bessel table covers orders 1-%d, got %d", len(besselTable), order)
		}
		g := make([]float64, order)
		copy(g, besselTable[order-1])
		return g, nil
	}
	return nil, fmt.Errorf("filter prototype: unknown family %d", int(family))
}

func butterworthCoeffs(n int) []float64 {
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		g[i] = 2 * math.Sin(float64(2*i+1)*math.Pi/float64(2*n))
	}
	return g
}

// chebyshevCoeffs is the standard recursive g-value formula for an
// equal-ripple prototype with rippleDB passband ripple.
func chebyshevCoeffs(n int, rippleDB float64) []float64 {
	beta := math.Log(1 / math.Tanh(rippleDB*math.Ln10/40))
	gamma := math.Sinh(beta / float64(2*n))

	a := make([]float64, n)
	b := make([]float64, n)
	for k := 1; k <= n; k++ {
		a[k-1] = math.Sin(float64(2*k-1) * math.Pi / float64(2*n))
		s := math.Sin(float64(k) * math.Pi / float64(n))
		b[k-1] = gamma*gamma + s*s
	}

	g := make([]float64, n)
	g[0] = 2 * a[0] / gamma
	for k := 2; k <= n; k++ {
		g[k-1] = 4 * a[k-2] * a[k-1] / (b[k-2] * g[k-2])
	}
	return g
}
