package component

import (
	"math"
)

const mosfetGateLeak = 1e-12 // gate leakage (A), effectively negligible

// NewDiode returns a junction diode with the default saturation current and
// thermal voltage. Override via SetParam("is", ...) / SetParam("vt", ...).
func NewDiode(name string) *Component {
	c := newComponent(name, Diode)
	c.params["is"] = 1e-12 // saturation current (A)
	c.params["vt"] = 0.026 // thermal voltage (V)
	return c
}

// NewBJT returns a bipolar transistor. polarity +1 selects NPN, -1 PNP.
func NewBJT(name string, polarity int) *Component {
	c := newComponent(name, BJT)
	c.params["beta"] = 100.0
	c.params["is"] = 1e-14
	c.params["vt"] = 0.026
	c.params["va"] = 100.0 // Early voltage (V)
	c.params["polarity"] = float64(sign(polarity))
	return c
}

// NewMOSFET returns a MOSFET. polarity +1 selects NMOS, -1 PMOS.
func NewMOSFET(name string, polarity int) *Component {
	c := newComponent(name, MOSFET)
	c.params["vth"] = 0.7
	c.params["kp"] = 20e-6
	c.params["lambda"] = 0.01
	c.params["polarity"] = float64(sign(polarity))
	return c
}

// NewOpAmp returns an operational amplifier with open-loop gain, gain
// bandwidth and output saturation defaults.
func NewOpAmp(name string) *Component {
	c := newComponent(name, OpAmp)
	c.params["gain"] = 1e5
	c.params["gbw"] = 1e6
	c.params["vsat"] = 15.0
	c.params["rin"] = 1e6
	return c
}

func sign(polarity int) int {
	if polarity < 0 {
		return -1
	}
	return 1
}

// Junction law I = Is*(exp(V/Vt) - 1), evaluated at the present node
// voltages without Newton refinement.
func diodeCurrent(c *Component) complex128 {
	v := cmplxAbs(c.pinDiff(0, 1))
	is := c.params["is"]
	vt := c.params["vt"]
	return complex(is*(math.Exp(v/vt)-1), 0)
}

// Dynamic small-signal resistance vt/id at the operating point; open when
// the junction carries no current.
func diodeImpedance(c *Component) complex128 {
	id := real(diodeCurrent(c))
	if id <= 0 {
		return complex(inf, 0)
	}
	return complex(c.params["vt"]/id, 0)
}

func bjtVbe(c *Component) complex128 { return c.pinDiff(1, 2) }
func bjtVbc(c *Component) complex128 { return c.pinDiff(1, 0) }

func bjtCollectorCurrent(c *Component) complex128 {
	vbe := cmplxAbs(bjtVbe(c))
	vbc := cmplxAbs(bjtVbc(c))
	is := c.params["is"]
	vt := c.params["vt"]
	va := c.params["va"]

	ic := is * (math.Exp(vbe/vt) - 1) * (1 + vbc/va)
	return complex(c.params["polarity"]*ic, 0)
}

func bjtBaseCurrent(c *Component) complex128 {
	return bjtCollectorCurrent(c) / complex(c.params["beta"], 0)
}

func bjtImpedance(c *Component) complex128 {
	ic := cmplxAbs(bjtCollectorCurrent(c))
	if ic == 0 {
		return complex(inf, 0)
	}
	return complex(c.params["vt"]/ic, 0)
}

func mosfetVgs(c *Component) complex128 { return c.pinDiff(1, 2) }
func mosfetVds(c *Component) complex128 { return c.pinDiff(0, 2) }

// Level-1 square-law model: cutoff, triode and saturation regions selected
// by Vgs and Vds against the threshold.
func mosfetDrainCurrent(c *Component) complex128 {
	vgs := cmplxAbs(mosfetVgs(c))
	vds := cmplxAbs(mosfetVds(c))
	vth := c.params["vth"]
	kp := c.params["kp"]
	lambda := c.params["lambda"]

	var id float64
	switch {
	case vgs <= vth:
		id = 0
	case vds <= vgs-vth:
		id = kp * ((vgs-vth)*vds - vds*vds/2) * (1 + lambda*vds)
	default:
		vov := vgs - vth
		id = kp / 2 * vov * vov * (1 + lambda*vds)
	}

	return complex(c.params["polarity"]*id, 0)
}

func mosfetImpedance(c *Component) complex128 {
	vgs := cmplxAbs(mosfetVgs(c))
	vth := c.params["vth"]
	if vgs <= vth {
		return complex(1e12, 0) // cutoff
	}
	return complex(1.0/(c.params["kp"]*(vgs-vth)), 0)
}

// Open-loop output gain*(v+ - v-), clamped at the saturation rails.
func opampOutput(c *Component) complex128 {
	vd := c.pinDiff(0, 1)
	vout := complex(c.params["gain"], 0) * vd
	vsat := c.params["vsat"]
	if cmplxAbs(vout) > vsat {
		if real(vout) >= 0 {
			return complex(vsat, 0)
		}
		return complex(-vsat, 0)
	}
	return vout
}
