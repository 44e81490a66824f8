// Package component implements the device model: a closed set of component
// kinds sharing one struct, with the constitutive equations dispatched on the
// kind. Components own named pins and a parameter map; node voltages are read
// back through the owning circuit graph.
package component

import (
	"fmt"
)

type Kind int

const (
	Resistor Kind = iota
	Capacitor
	Inductor
	VoltageSource
	CurrentSource
	Diode
	BJT
	MOSFET
	OpAmp
	TransmissionLine
	Transformer
	WaveguidePort
	Circulator
	Isolator
	Coupler
	Attenuator
	PhaseShifter
	Crystal
)

var kindNames = [...]string{
	Resistor:         "R",
	Capacitor:        "C",
	Inductor:         "L",
	VoltageSource:    "V",
	CurrentSource:    "I",
	Diode:            "D",
	BJT:              "Q",
	MOSFET:           "M",
	OpAmp:            "U",
	TransmissionLine: "T",
	Transformer:      "X",
	WaveguidePort:    "W",
	Circulator:       "CIR",
	Isolator:         "ISO",
	Coupler:          "CPL",
	Attenuator:       "ATT",
	PhaseShifter:     "PHS",
	Crystal:          "Y",
}

// pinNames fixes the pin count and ordering per kind.
var pinNames = [...][]string{
	Resistor:         {"p1", "p2"},
	Capacitor:        {"p1", "p2"},
	Inductor:         {"p1", "p2"},
	VoltageSource:    {"p+", "p-"},
	CurrentSource:    {"p+", "p-"},
	Diode:            {"anode", "cathode"},
	BJT:              {"collector", "base", "emitter"},
	MOSFET:           {"drain", "gate", "source"},
	OpAmp:            {"in+", "in-", "out"},
	TransmissionLine: {"in+", "in-", "out+", "out-"},
	Transformer:      {"p1", "p2", "s1", "s2"},
	WaveguidePort:    {"p1", "p2"},
	Circulator:       {"port1", "port2", "port3"},
	Isolator:         {"input", "output"},
	Coupler:          {"input", "through", "coupled", "isolated"},
	Attenuator:       {"input", "output"},
	PhaseShifter:     {"input", "output"},
	Crystal:          {"p1", "p2"},
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// PinCount reports the fixed terminal count for the kind.
func (k Kind) PinCount() int { return len(pinNames[k]) }

// Unconnected marks a pin that has not been given a net yet.
const Unconnected = -1

type Pin struct {
	Name string
	Node int
}

// NodeReader is how a component reads solved node voltages back from the
// graph that owns it. Ground and unconnected pins read as zero.
type NodeReader interface {
	NodeVoltage(node int) complex128
}

type Component struct {
	name   string
	kind   Kind
	pins   []Pin
	params map[string]float64

	nodes NodeReader

	// analysis context
	freq float64 // last AC analysis frequency

	// integrated state for energy-storing kinds
	charge      float64
	flux        float64
	fluxSec     float64
	energy      float64
	elapsed     float64
	lastVoltage float64
	lastCurrent float64
	tranCurrent float64

	branchCurrent complex128 // solved current, sources only
}

func newComponent(name string, kind Kind) *Component {
	names := pinNames[kind]
	pins := make([]Pin, len(names))
	for i, n := range names {
		pins[i] = Pin{Name: n, Node: Unconnected}
	}

	return &Component{
		name:   name,
		kind:   kind,
		pins:   pins,
		params: make(map[string]float64),
	}
}

func (c *Component) Name() string { return c.name }
func (c *Component) Kind() Kind   { return c.kind }

func (c *Component) Pins() []Pin { return c.pins }

// Node reports the net bound to pin i, or Unconnected.
func (c *Component) Node(pin int) int {
	if pin < 0 || pin >= len(c.pins) {
		return Unconnected
	}
	return c.pins[pin].Node
}

// SetNode binds pin i to a net. Called by the graph during registration.
func (c *Component) SetNode(pin, node int) {
	c.pins[pin].Node = node
}

// Bind attaches the graph's voltage reader. Called once at registration.
func (c *Component) Bind(nodes NodeReader) {
	c.nodes = nodes
}

func (c *Component) Param(name string) float64 {
	return c.params[name]
}

// SetParam mutates a parameter between analyses. Element values that must be
// physical (resistance, capacitance, inductance) are validated here and at
// construction.
func (c *Component) SetParam(name string, value float64) error {
	switch {
	case c.kind == Resistor && name == "resistance" && value <= 0:
		return fmt.Errorf("%s: resistance must be positive, got %g", c.name, value)
	case c.kind == Capacitor && name == "capacitance" && value <= 0:
		return fmt.Errorf("%s: capacitance must be positive, got %g", c.name, value)
	case c.kind == Inductor && name == "inductance" && value <= 0:
		return fmt.Errorf("%s: inductance must be positive, got %g", c.name, value)
	}
	c.params[name] = value
	return nil
}

// SetFrequency records the analysis frequency so that instantaneous branch
// quantities of reactive kinds are computed at the right point. The AC driver
// sets it per sweep point.
func (c *Component) SetFrequency(freq float64) { c.freq = freq }

// BranchCurrent is the solved source current. Valid for source kinds after an
// analysis; written by the solver.
func (c *Component) BranchCurrent() complex128 { return c.branchCurrent }

func (c *Component) SetBranchCurrent(i complex128) { c.branchCurrent = i }

// Charge is the integrated stored charge (capacitor, transistor junctions).
func (c *Component) Charge() float64 { return c.charge }

// Flux is the integrated magnetic flux (inductor, transformer primary).
func (c *Component) Flux() float64 { return c.flux }

// StoredEnergy is the integrated dissipated/stored energy for kinds that
// track it (attenuator, waveguide, crystal).
func (c *Component) StoredEnergy() float64 { return c.energy }

// LastVoltage and LastCurrent expose the transient integration state used by
// the backward-Euler companion stamps.
func (c *Component) LastVoltage() float64 { return c.lastVoltage }
func (c *Component) LastCurrent() float64 { return c.lastCurrent }

func (c *Component) nodeVoltage(pin int) complex128 {
	if c.nodes == nil || pin >= len(c.pins) {
		return 0
	}
	n := c.pins[pin].Node
	if n == Unconnected {
		return 0
	}
	return c.nodes.NodeVoltage(n)
}

func (c *Component) pinDiff(a, b int) complex128 {
	return c.nodeVoltage(a) - c.nodeVoltage(b)
}

// Impedance is the small-signal impedance at frequency freq (Hz). Frequency
// independent kinds ignore the argument; reactive kinds keep the correct
// asymptotes at zero and infinite frequency.
func (c *Component) Impedance(freq float64) complex128 {
	switch c.kind {
	case Resistor:
		return complex(c.params["resistance"], 0)
	case Capacitor:
		return capacitorImpedance(c, freq)
	case Inductor:
		return inductorImpedance(c, freq)
	case VoltageSource:
		return 0
	case CurrentSource:
		return complex(inf, 0)
	case Diode:
		return diodeImpedance(c)
	case BJT:
		return bjtImpedance(c)
	case MOSFET:
		return mosfetImpedance(c)
	case OpAmp:
		return complex(c.params["rin"], 0)
	case TransmissionLine:
		return tlineImpedance(c, freq)
	case Transformer:
		return transformerImpedance(c, freq)
	case WaveguidePort:
		return waveguideImpedance(c, freq)
	case Circulator, Isolator, Coupler, Attenuator, PhaseShifter:
		return complex(c.params["impedance"], 0)
	case Crystal:
		return crystalImpedance(c, freq)
	}
	return complex(inf, 0)
}

// CurrentThrough is the instantaneous branch current derived from the node
// voltages of the component's pins.
func (c *Component) CurrentThrough() complex128 {
	switch c.kind {
	case Resistor:
		return c.VoltageAcross() / complex(c.params["resistance"], 0)
	case Capacitor, Inductor:
		if c.freq > 0 {
			return c.VoltageAcross() / c.Impedance(c.freq)
		}
		return complex(c.tranCurrent, 0)
	case VoltageSource:
		return c.branchCurrent
	case CurrentSource:
		return c.SourcePhasor()
	case Diode:
		return diodeCurrent(c)
	case BJT:
		return bjtCollectorCurrent(c)
	case MOSFET:
		return mosfetDrainCurrent(c)
	case OpAmp:
		return 0
	case TransmissionLine:
		return c.VoltageAcross() / c.Impedance(c.freq)
	case Transformer:
		return c.VoltageAcross() / c.Impedance(c.freq)
	case WaveguidePort, Crystal:
		return c.VoltageAcross() / c.Impedance(c.freq)
	case Circulator:
		return circulatorCurrent(c)
	case Isolator:
		return isolatorCurrent(c)
	case Coupler:
		return couplerCurrent(c)
	case Attenuator:
		return attenuatorCurrent(c)
	case PhaseShifter:
		return phaseShifterCurrent(c)
	}
	return 0
}

// VoltageAcross is the instantaneous voltage between the component's first
// two pins (primary port for multi-pin kinds).
func (c *Component) VoltageAcross() complex128 {
	switch c.kind {
	case VoltageSource:
		return c.sourceVoltagePhasor()
	case OpAmp:
		return opampOutput(c)
	default:
		return c.pinDiff(0, 1)
	}
}

// AdvanceState integrates internal state forward by dt using the present
// solution. The transient driver calls it exactly once per time step, after
// the solve for that step.
func (c *Component) AdvanceState(dt float64) {
	switch c.kind {
	case Capacitor:
		v := real(c.VoltageAcross())
		i := c.params["capacitance"] * (v - c.lastVoltage) / dt
		c.charge += i * dt
		c.tranCurrent = i
		c.lastCurrent = i
		c.lastVoltage = v
	case Inductor:
		v := real(c.VoltageAcross())
		i := c.lastCurrent + v*dt/c.params["inductance"]
		c.flux += v * dt
		c.tranCurrent = i
		c.lastCurrent = i
		c.lastVoltage = v
	case VoltageSource, CurrentSource:
		c.elapsed += dt
	case BJT:
		ib := cmplxAbs(bjtBaseCurrent(c))
		c.charge += ib * dt
	case MOSFET:
		c.charge += mosfetGateLeak * dt
	case TransmissionLine:
		tlineAdvance(c, dt)
	case Transformer:
		c.flux += cmplxAbs(c.pinDiff(0, 1)) * dt
		c.fluxSec += cmplxAbs(c.pinDiff(2, 3)) * dt
	case WaveguidePort, Crystal, Attenuator:
		v := c.VoltageAcross()
		i := c.CurrentThrough()
		c.energy += cmplxAbs(v*conj(i)) * dt
	}
}
