package component

import (
	"math"
	"testing"
)

// fixedNodes supplies pin voltages to components outside a solved circuit.
type fixedNodes map[int]complex128

func (f fixedNodes) NodeVoltage(node int) complex128 { return f[node] }

// bindPins wires the component's pins to nodes 0..n-1 over a fixed voltage
// table.
func bindPins(c *Component, volts ...complex128) {
	nodes := fixedNodes{}
	for i, v := range volts {
		c.SetNode(i, i)
		nodes[i] = v
	}
	c.Bind(nodes)
}

func TestDiodeCurrent(t *testing.T) {
	d := NewDiode("D1")
	bindPins(d, complex(0.6, 0), 0)

	id := real(d.CurrentThrough())
	want := 1e-12 * (math.Exp(0.6/0.026) - 1)
	if math.Abs(id-want) > want*1e-9 {
		t.Errorf("Id = %g, want %g", id, want)
	}

	// Forward current rises steeply with bias.
	bindPins(d, complex(0.7, 0), 0)
	if real(d.CurrentThrough()) <= id {
		t.Error("diode current must grow with forward bias")
	}
}

func TestDiodeOpenWhenOff(t *testing.T) {
	d := NewDiode("D1")
	bindPins(d, 0, 0)

	z := d.Impedance(0)
	if real(z) < 1e9 && !math.IsInf(real(z), 1) {
		t.Errorf("unbiased diode should look open, got %v", z)
	}
}

func TestBJTEbersMoll(t *testing.T) {
	q := NewBJT("Q1", 1)
	// Collector 5V, base 0.65V, emitter grounded.
	bindPins(q, complex(5, 0), complex(0.65, 0), 0)

	ic := real(q.CurrentThrough())
	if ic <= 0 {
		t.Fatalf("active-region NPN should conduct, Ic = %g", ic)
	}

	ib := real(bjtBaseCurrent(q))
	gain := ic / ib
	if math.Abs(gain-100) > 1e-6 {
		t.Errorf("Ic/Ib = %g, want beta = 100", gain)
	}
}

func TestMOSFETRegions(t *testing.T) {
	m := NewMOSFET("M1", 1)

	// Cutoff: Vgs below threshold.
	bindPins(m, complex(5, 0), complex(0.5, 0), 0)
	if id := real(m.CurrentThrough()); id != 0 {
		t.Errorf("cutoff drain current = %g, want 0", id)
	}

	// Saturation: Vds > Vov.
	bindPins(m, complex(5, 0), complex(2, 0), 0)
	idSat := real(m.CurrentThrough())
	if idSat <= 0 {
		t.Fatal("saturation drain current should be positive")
	}

	// Triode at small Vds carries less current than saturation.
	bindPins(m, complex(0.2, 0), complex(2, 0), 0)
	idTriode := real(m.CurrentThrough())
	if idTriode <= 0 || idTriode >= idSat {
		t.Errorf("triode current %g should sit below saturation %g", idTriode, idSat)
	}
}

func TestOpAmpClamps(t *testing.T) {
	u := NewOpAmp("U1")
	// Large differential input saturates the output at the rail.
	bindPins(u, complex(1, 0), 0, 0)
	if out := real(u.VoltageAcross()); out != 15 {
		t.Errorf("saturated output = %g, want 15", out)
	}

	bindPins(u, complex(-1, 0), 0, 0)
	if out := real(u.VoltageAcross()); out != -15 {
		t.Errorf("saturated output = %g, want -15", out)
	}

	// Tiny input stays linear: gain 1e5.
	bindPins(u, complex(1e-6, 0), 0, 0)
	if out := real(u.VoltageAcross()); math.Abs(out-0.1) > 1e-9 {
		t.Errorf("linear output = %g, want 0.1", out)
	}
}

func TestAttenuatorScalesCurrent(t *testing.T) {
	a, err := NewAttenuator("ATT1", 6)
	if err != nil {
		t.Fatal(err)
	}
	bindPins(a, complex(1, 0), 0)
	a.SetFrequency(1e9)

	// 6 dB is a factor of ~0.501 in voltage over the 50 ohm reference.
	i := cmplxAbs(a.CurrentThrough())
	want := math.Pow(10, -6.0/20) / 50
	if math.Abs(i-want) > want*1e-6 {
		t.Errorf("|I| = %g, want %g", i, want)
	}
}
