package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"rfsim/internal/consts"
	"rfsim/pkg/component"
)

type NoiseKind int

const (
	ThermalNoise NoiseKind = iota // Johnson-Nyquist, 4kTR
	ShotNoise                     // 2qI
	FlickerNoise                  // K/f
)

// NoiseSource ties a noise mechanism to a component. Magnitude is only used
// by flicker sources (the K in K/f); thermal and shot read the component's
// impedance and current at the evaluation frequency.
type NoiseSource struct {
	Kind      NoiseKind
	Magnitude float64
	Comp      *component.Component
}

// noiseTemp is the analysis temperature for thermal noise (K).
const noiseTemp = consts.ROOMTEMP

func (s NoiseSource) density(freq float64) float64 {
	switch s.Kind {
	case ThermalNoise:
		r := cmplx.Abs(s.Comp.Impedance(freq))
		return 4 * consts.BOLTZMANN * noiseTemp * r
	case ShotNoise:
		i := cmplx.Abs(s.Comp.CurrentThrough())
		return 2 * consts.CHARGE * i
	case FlickerNoise:
		return s.Magnitude / freq
	}
	return 0
}

// NoiseSpectrum evaluates the summed noise density of the sources over a log
// frequency grid. Returns the frequencies and the per-point density.
func NoiseSpectrum(sources []NoiseSource, startFreq, stopFreq float64, points int) ([]float64, []float64, error) {
	if startFreq <= 0 || stopFreq < startFreq {
		return nil, nil, fmt.Errorf("noise spectrum: bad frequency range [%g, %g]", startFreq, stopFreq)
	}
	if points < 2 {
		return nil, nil, fmt.Errorf("noise spectrum: need at least 2 points, got %d", points)
	}

	freqs := floats.LogSpan(make([]float64, points), startFreq, stopFreq)
	spectrum := make([]float64, points)
	for i, f := range freqs {
		var total float64
		for _, s := range sources {
			total += s.density(f)
		}
		spectrum[i] = total
	}
	return freqs, spectrum, nil
}

// TotalNoise sums the per-source density sampled at geometric frequency
// steps across [startFreq, stopFreq]. The result is a relative figure for
// comparing designs, not a bandwidth integral in V².
func TotalNoise(sources []NoiseSource, startFreq, stopFreq float64) (float64, error) {
	if startFreq <= 0 || stopFreq < startFreq {
		return 0, fmt.Errorf("total noise: bad frequency range [%g, %g]", startFreq, stopFreq)
	}

	total := 0.0
	for f := startFreq; f <= stopFreq; f *= 1.1 {
		for _, s := range sources {
			total += s.density(f)
		}
	}
	return total, nil
}
