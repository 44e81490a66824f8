package component

import (
	"math/cmplx"
	"testing"
)

func TestResistorImpedanceFlat(t *testing.T) {
	r, err := NewResistor("R1", 1e3)
	if err != nil {
		t.Fatalf("NewResistor failed: %v", err)
	}
	for _, f := range []float64{0, 1e3, 1e6, 1e9} {
		z := r.Impedance(f)
		if real(z) != 1e3 || imag(z) != 0 {
			t.Errorf("resistor impedance at %g Hz = %v, want (1000, 0)", f, z)
		}
	}
}

func TestCapacitorImpedance(t *testing.T) {
	c, err := NewCapacitor("C1", 1e-6)
	if err != nil {
		t.Fatalf("NewCapacitor failed: %v", err)
	}

	if z := c.Impedance(0); !cmplx.IsInf(z) {
		t.Errorf("capacitor at DC should be open, got %v", z)
	}

	// |Z| must fall with frequency: 1/(wC).
	z1 := cmplx.Abs(c.Impedance(1e3))
	z2 := cmplx.Abs(c.Impedance(10e3))
	if z2 >= z1 {
		t.Errorf("capacitor |Z| should fall with frequency: |Z(1k)|=%g, |Z(10k)|=%g", z1, z2)
	}
	want := 1 / (2 * 3.141592653589793 * 1e3 * 1e-6)
	if d := z1 - want; d > 1e-6*want || d < -1e-6*want {
		t.Errorf("capacitor |Z(1k)| = %g, want %g", z1, want)
	}
}

func TestInductorImpedance(t *testing.T) {
	l, err := NewInductor("L1", 1e-3)
	if err != nil {
		t.Fatalf("NewInductor failed: %v", err)
	}

	if z := l.Impedance(0); z != 0 {
		t.Errorf("inductor at DC should be a short, got %v", z)
	}

	z1 := cmplx.Abs(l.Impedance(1e3))
	z2 := cmplx.Abs(l.Impedance(10e3))
	if z2 <= z1 {
		t.Errorf("inductor |Z| should rise with frequency: |Z(1k)|=%g, |Z(10k)|=%g", z1, z2)
	}
}

func TestPassiveValueValidation(t *testing.T) {
	if _, err := NewResistor("R1", 0); err == nil {
		t.Error("zero resistance should be rejected")
	}
	if _, err := NewCapacitor("C1", -1e-9); err == nil {
		t.Error("negative capacitance should be rejected")
	}
	if _, err := NewInductor("L1", -1); err == nil {
		t.Error("negative inductance should be rejected")
	}
	if _, err := NewVoltageSource("V1", 5, -1); err == nil {
		t.Error("negative source frequency should be rejected")
	}

	r, err := NewResistor("R1", 100)
	if err != nil {
		t.Fatalf("NewResistor failed: %v", err)
	}
	if err := r.SetParam("resistance", -10); err == nil {
		t.Error("SetParam should reject negative resistance")
	}
	if err := r.SetParam("resistance", 220); err != nil {
		t.Errorf("SetParam rejected a valid value: %v", err)
	}
	if got := r.Param("resistance"); got != 220 {
		t.Errorf("resistance = %g after SetParam, want 220", got)
	}
}

func TestCrystalResonance(t *testing.T) {
	x, err := NewCrystal("X1", 10e6)
	if err != nil {
		t.Fatalf("NewCrystal failed: %v", err)
	}

	if z := x.Impedance(0); !cmplx.IsInf(z) {
		t.Errorf("crystal at DC should be open, got %v", z)
	}

	// Near series resonance the motional branch collapses to its loss
	// resistance; far below it the crystal looks capacitive and large.
	atRes := cmplx.Abs(x.Impedance(10e6))
	below := cmplx.Abs(x.Impedance(1e6))
	if atRes >= below {
		t.Errorf("crystal should dip at resonance: |Z(f0)|=%g, |Z(f0/10)|=%g", atRes, below)
	}
}

func TestWaveguideCutoff(t *testing.T) {
	w, err := NewWaveguidePort("W1", 0.02286, 0.01016, 6.557e9)
	if err != nil {
		t.Fatalf("NewWaveguidePort failed: %v", err)
	}

	below := w.Impedance(1e9)
	if imag(below) == 0 {
		t.Error("waveguide below cutoff should be purely reactive")
	}

	above := w.Impedance(10e9)
	if real(above) <= 0 || imag(above) != 0 {
		t.Errorf("waveguide above cutoff should be resistive, got %v", above)
	}
}

func TestRFPassiveValidation(t *testing.T) {
	if _, err := NewAttenuator("ATT1", -3); err == nil {
		t.Error("negative attenuation should be rejected")
	}
	if _, err := NewIsolator("ISO1", -20); err == nil {
		t.Error("negative isolation should be rejected")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r, err := NewResistor("R1", 100)
	if err != nil {
		t.Fatalf("NewResistor failed: %v", err)
	}
	r.SetNode(0, 3)

	cp := r.Clone()
	if cp.Name() != "R1" || cp.Param("resistance") != 100 {
		t.Fatalf("clone lost state: name=%s resistance=%g", cp.Name(), cp.Param("resistance"))
	}
	if cp.Node(0) != 3 {
		t.Errorf("clone pin binding = %d, want 3", cp.Node(0))
	}

	if err := cp.SetParam("resistance", 470); err != nil {
		t.Fatalf("SetParam on clone failed: %v", err)
	}
	if r.Param("resistance") != 100 {
		t.Error("mutating the clone changed the original")
	}
	cp.SetNode(0, 7)
	if r.Node(0) != 3 {
		t.Error("rebinding the clone's pin changed the original")
	}
}
