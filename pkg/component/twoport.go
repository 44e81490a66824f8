package component

import (
	"fmt"
	"math"
	"math/cmplx"

	"rfsim/internal/consts"
)

// NewTransmissionLine returns a lossy line of the given physical length,
// characteristic impedance and velocity factor.
func NewTransmissionLine(name string, length, z0, velocityFactor float64) (*Component, error) {
	if length <= 0 || z0 <= 0 {
		return nil, fmt.Errorf("line %s: length and z0 must be positive", name)
	}
	if velocityFactor <= 0 || velocityFactor > 1 {
		return nil, fmt.Errorf("line %s: velocity factor must be in (0, 1], got %g", name, velocityFactor)
	}
	c := newComponent(name, TransmissionLine)
	c.params["length"] = length
	c.params["z0"] = z0
	c.params["vf"] = velocityFactor
	c.params["loss"] = 0.1 // dB/m
	return c, nil
}

// NewTransformer returns an ideal-coupling transformer with the given turns
// ratio and primary inductance.
func NewTransformer(name string, turnsRatio, primaryInductance float64) (*Component, error) {
	if turnsRatio <= 0 || primaryInductance <= 0 {
		return nil, fmt.Errorf("transformer %s: turns ratio and primary inductance must be positive", name)
	}
	c := newComponent(name, Transformer)
	c.params["turns_ratio"] = turnsRatio
	c.params["Lp"] = primaryInductance
	c.params["coupling"] = 0.99
	c.params["Rp"] = 0.1
	c.params["Rs"] = 0.1
	return c, nil
}

// NewWaveguidePort returns a rectangular waveguide port with the given
// aperture and TE10 cutoff frequency.
func NewWaveguidePort(name string, width, height, cutoffFreq float64) (*Component, error) {
	if cutoffFreq <= 0 {
		return nil, fmt.Errorf("waveguide %s: cutoff frequency must be positive, got %g", name, cutoffFreq)
	}
	c := newComponent(name, WaveguidePort)
	c.params["width"] = width
	c.params["height"] = height
	c.params["fc"] = cutoffFreq
	c.params["loss"] = 0.1
	return c, nil
}

// NewCrystal returns a quartz resonator modeled as a motional RLC branch in
// parallel with the shunt capacitance.
func NewCrystal(name string, resonantFreq float64) (*Component, error) {
	if resonantFreq <= 0 {
		return nil, fmt.Errorf("crystal %s: resonant frequency must be positive, got %g", name, resonantFreq)
	}
	c := newComponent(name, Crystal)
	c.params["frequency"] = resonantFreq
	c.params["q"] = 10000.0
	c.params["c0"] = 5e-12 // shunt capacitance
	c.params["cm"] = 1e-12 // motional capacitance
	return c, nil
}

func tlineImpedance(c *Component, freq float64) complex128 {
	z0 := complex(c.params["z0"], 0)
	length := c.params["length"]
	if freq == 0 {
		return z0
	}

	beta := 2 * math.Pi * freq / (consts.LIGHT * c.params["vf"])
	alpha := c.params["loss"] * freq / 1e9 // dB/m scaled toward Np/m
	gamma := complex(alpha, beta)

	zl := tlineLoadImpedance(c)
	gl := gamma * complex(length, 0)
	num := zl*cmplx.Cosh(gl) + z0*cmplx.Sinh(gl)
	den := z0*cmplx.Cosh(gl) + zl*cmplx.Sinh(gl)
	return z0 * num / den
}

func tlineLoadImpedance(c *Component) complex128 {
	vl := c.pinDiff(2, 3)
	il := complex(c.lastCurrent, 0)
	if cmplxAbs(il) < 1e-12 {
		return complex(c.params["z0"], 0)
	}
	return vl / il
}

func tlineAdvance(c *Component, dt float64) {
	v := real(c.pinDiff(0, 1))
	c.lastVoltage = v
	z := c.Impedance(c.freq)
	if cmplxAbs(z) > 0 {
		c.lastCurrent = v / cmplxAbs(z)
	}
	c.elapsed += dt
}

func transformerImpedance(c *Component, freq float64) complex128 {
	w := 2 * math.Pi * freq
	return complex(c.params["Rp"], w*c.params["Lp"])
}

// SecondaryVoltage is the coupled secondary voltage n*k*Vp.
func (c *Component) SecondaryVoltage() complex128 {
	if c.kind != Transformer {
		return 0
	}
	n := c.params["turns_ratio"]
	k := c.params["coupling"]
	return c.pinDiff(0, 1) * complex(n*k, 0)
}

// SecondaryImpedance is the primary impedance reflected through the turns
// ratio plus the secondary winding resistance.
func (c *Component) SecondaryImpedance(freq float64) complex128 {
	if c.kind != Transformer {
		return complex(inf, 0)
	}
	n := c.params["turns_ratio"]
	return complex(c.params["Rs"], 0) + transformerImpedance(c, freq)*complex(n*n, 0)
}

func waveguideImpedance(c *Component, freq float64) complex128 {
	fc := c.params["fc"]
	if freq < fc {
		// below cutoff the mode is evanescent
		return complex(0, 1e6)
	}
	beta := 2 * math.Pi * freq * math.Sqrt(1-(fc/freq)*(fc/freq)) / consts.LIGHT
	return complex(consts.ETA0/beta, 0)
}

func crystalImpedance(c *Component, freq float64) complex128 {
	f0 := c.params["frequency"]
	q := c.params["q"]
	c0 := c.params["c0"]
	cm := c.params["cm"]

	lm := 1.0 / (4 * math.Pi * math.Pi * f0 * f0 * cm)
	rm := 2 * math.Pi * f0 * lm / q

	if freq == 0 {
		return complex(inf, 0) // both branches block DC
	}

	w := 2 * math.Pi * freq
	zc0 := complex(0, -1.0/(w*c0))
	zcm := complex(0, -1.0/(w*cm))
	zlm := complex(0, w*lm)

	zm := complex(rm, 0) + zcm + zlm // series motional branch
	return (zc0 * zm) / (zc0 + zm)
}
