package component

import (
	"fmt"
	"math"
	"math/cmplx"
)

var inf = math.Inf(1)

func cmplxAbs(z complex128) float64 { return cmplx.Abs(z) }
func conj(z complex128) complex128  { return cmplx.Conj(z) }

// NewResistor returns a two-terminal linear resistor.
func NewResistor(name string, ohms float64) (*Component, error) {
	if ohms <= 0 {
		return nil, fmt.Errorf("resistor %s: resistance must be positive, got %g", name, ohms)
	}
	c := newComponent(name, Resistor)
	c.params["resistance"] = ohms
	return c, nil
}

// NewCapacitor returns an ideal capacitor.
func NewCapacitor(name string, farads float64) (*Component, error) {
	if farads <= 0 {
		return nil, fmt.Errorf("capacitor %s: capacitance must be positive, got %g", name, farads)
	}
	c := newComponent(name, Capacitor)
	c.params["capacitance"] = farads
	return c, nil
}

// NewInductor returns an ideal inductor.
func NewInductor(name string, henrys float64) (*Component, error) {
	if henrys <= 0 {
		return nil, fmt.Errorf("inductor %s: inductance must be positive, got %g", name, henrys)
	}
	c := newComponent(name, Inductor)
	c.params["inductance"] = henrys
	return c, nil
}

// NewVoltageSource returns an independent source. freq of zero means DC; a
// nonzero freq gives a sinusoid of that frequency in transient runs and a
// unit-phase phasor of the given amplitude in AC runs.
func NewVoltageSource(name string, volts, freq float64) (*Component, error) {
	if freq < 0 {
		return nil, fmt.Errorf("source %s: frequency must not be negative, got %g", name, freq)
	}
	c := newComponent(name, VoltageSource)
	c.params["voltage"] = volts
	c.params["frequency"] = freq
	return c, nil
}

// NewCurrentSource returns an independent current source pushing amps into
// its p+ node and drawing them back at p-.
func NewCurrentSource(name string, amps, freq float64) (*Component, error) {
	if freq < 0 {
		return nil, fmt.Errorf("source %s: frequency must not be negative, got %g", name, freq)
	}
	c := newComponent(name, CurrentSource)
	c.params["current"] = amps
	c.params["frequency"] = freq
	return c, nil
}

func capacitorImpedance(c *Component, freq float64) complex128 {
	if freq == 0 {
		return complex(inf, 0)
	}
	xc := 1.0 / (2 * math.Pi * freq * c.params["capacitance"])
	return complex(0, -xc)
}

func inductorImpedance(c *Component, freq float64) complex128 {
	xl := 2 * math.Pi * freq * c.params["inductance"]
	return complex(0, xl)
}

// sourceVoltagePhasor is the source value as a phasor at the source's own
// elapsed time: a plain (V, 0) at t=0 or for DC sources.
func (c *Component) sourceVoltagePhasor() complex128 {
	v := c.params["voltage"]
	freq := c.params["frequency"]
	if freq == 0 {
		return complex(v, 0)
	}
	omega := 2 * math.Pi * freq
	return complex(v*math.Cos(omega*c.elapsed), v*math.Sin(omega*c.elapsed))
}

// SourcePhasor is the drive amplitude used in DC and AC assembly.
func (c *Component) SourcePhasor() complex128 {
	switch c.kind {
	case VoltageSource:
		return c.sourceVoltagePhasor()
	case CurrentSource:
		return complex(c.params["current"], 0)
	}
	return 0
}

// SourceValue is the instantaneous drive at absolute time t, used by the
// transient assembler.
func (c *Component) SourceValue(t float64) float64 {
	var amp float64
	switch c.kind {
	case VoltageSource:
		amp = c.params["voltage"]
	case CurrentSource:
		amp = c.params["current"]
	default:
		return 0
	}
	freq := c.params["frequency"]
	if freq == 0 {
		return amp
	}
	return amp * math.Cos(2*math.Pi*freq*t)
}
