package component

import (
	"fmt"
	"math"
	"math/cmplx"
)

// RF passives. All are matched to a characteristic impedance and described by
// their S-parameters; the MNA assembler sees them as that impedance between
// the first two ports, the port arithmetic lives in CurrentThrough.

func newRFPassive(name string, kind Kind) *Component {
	c := newComponent(name, kind)
	c.params["impedance"] = 50.0
	c.params["vswr"] = 1.2
	return c
}

// NewCirculator returns a three-port circulator with the given reverse
// isolation in dB.
func NewCirculator(name string, isolationDB float64) (*Component, error) {
	if isolationDB < 0 {
		return nil, fmt.Errorf("circulator %s: isolation must not be negative, got %g", name, isolationDB)
	}
	c := newRFPassive(name, Circulator)
	c.params["isolation"] = isolationDB
	c.params["insertion_loss"] = 0.5
	return c, nil
}

// NewIsolator returns a two-port isolator with the given reverse isolation
// in dB.
func NewIsolator(name string, isolationDB float64) (*Component, error) {
	if isolationDB < 0 {
		return nil, fmt.Errorf("isolator %s: isolation must not be negative, got %g", name, isolationDB)
	}
	c := newRFPassive(name, Isolator)
	c.params["isolation"] = isolationDB
	c.params["insertion_loss"] = 0.5
	return c, nil
}

// NewCoupler returns a four-port directional coupler with the given coupling
// factor in dB.
func NewCoupler(name string, couplingDB float64) (*Component, error) {
	if couplingDB < 0 {
		return nil, fmt.Errorf("coupler %s: coupling must not be negative, got %g", name, couplingDB)
	}
	c := newRFPassive(name, Coupler)
	c.params["coupling"] = couplingDB
	c.params["directivity"] = 25.0
	c.params["insertion_loss"] = 0.5
	return c, nil
}

// NewAttenuator returns a matched attenuator pad.
func NewAttenuator(name string, attenuationDB float64) (*Component, error) {
	if attenuationDB < 0 {
		return nil, fmt.Errorf("attenuator %s: attenuation must not be negative, got %g", name, attenuationDB)
	}
	c := newRFPassive(name, Attenuator)
	c.params["attenuation"] = attenuationDB
	c.params["max_power"] = 1.0
	return c, nil
}

// NewPhaseShifter returns a fixed phase shifter.
func NewPhaseShifter(name string, degrees float64) (*Component, error) {
	c := newRFPassive(name, PhaseShifter)
	c.params["phase_shift"] = degrees
	c.params["insertion_loss"] = 1.0
	c.params["vswr"] = 1.3
	return c, nil
}

func dbToLinear(db float64) float64 { return math.Pow(10, -db/20) }

func circulatorCurrent(c *Component) complex128 {
	il := dbToLinear(c.params["insertion_loss"])
	iso := dbToLinear(c.params["isolation"])

	// ideal circulator S-matrix row for port 1: through to 2, isolated from 3
	s := [3]complex128{0, complex(il, 0), complex(iso, 0)}

	var current complex128
	for j := 0; j < 3; j++ {
		current += s[j] * c.nodeVoltage(j)
	}
	return current / complex(c.params["impedance"], 0)
}

func isolatorCurrent(c *Component) complex128 {
	vin := c.nodeVoltage(0)
	vout := c.nodeVoltage(1)

	il := dbToLinear(c.params["insertion_loss"])
	iso := dbToLinear(c.params["isolation"])

	// forward passes with insertion loss, reverse sees the isolation
	if cmplx.Abs(vin) > cmplx.Abs(vout) {
		return (vin - vout) * complex(il, 0) / complex(c.params["impedance"], 0)
	}
	return (vin - vout) * complex(iso, 0) / complex(c.params["impedance"], 0)
}

func couplerCurrent(c *Component) complex128 {
	cf := dbToLinear(c.params["coupling"])
	il := dbToLinear(c.params["insertion_loss"])
	d := dbToLinear(c.params["directivity"])

	// row 1 of the directional coupler S-matrix
	s := [4]complex128{0, complex(il, 0), complex(cf, 0), complex(d, 0)}

	var current complex128
	for j := 0; j < 4; j++ {
		current += s[j] * c.nodeVoltage(j)
	}
	return current / complex(c.params["impedance"], 0)
}

func attenuatorCurrent(c *Component) complex128 {
	att := dbToLinear(c.params["attenuation"])
	return c.pinDiff(0, 1) * complex(att, 0) / complex(c.params["impedance"], 0)
}

func phaseShifterCurrent(c *Component) complex128 {
	il := dbToLinear(c.params["insertion_loss"])
	phase := c.params["phase_shift"] * math.Pi / 180.0
	rot := cmplx.Rect(1, phase)
	return (c.nodeVoltage(0)*rot - c.nodeVoltage(1)) * complex(il, 0) / complex(c.params["impedance"], 0)
}
