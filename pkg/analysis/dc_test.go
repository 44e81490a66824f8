package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"rfsim/pkg/circuit"
	"rfsim/pkg/component"
)

func near(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g (tol %g)", what, got, want, tol)
	}
}

// divider builds V1 -> R1 -> mid -> R2 -> gnd and returns the graph. The
// voltage slice indexes are 0 for the source node, 1 for the tap.
func divider(t *testing.T, volts, r1, r2 float64) *circuit.Graph {
	t.Helper()
	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		t.Fatal(err)
	}
	in := g.Node()
	mid := g.Node()

	src, err := component.NewVoltageSource("V1", volts, 0)
	if err != nil {
		t.Fatal(err)
	}
	ra, err := component.NewResistor("R1", r1)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := component.NewResistor("R2", r2)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Add(src, in, gnd); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(ra, in, mid); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(rb, mid, gnd); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDCDivider(t *testing.T) {
	g := divider(t, 10, 1e3, 1e3)

	res, err := DC(g)
	if err != nil {
		t.Fatalf("DC failed: %v", err)
	}

	near(t, real(res.Voltages[0]), 10, 1e-9, "V(in)")
	near(t, real(res.Voltages[1]), 5, 1e-9, "V(mid)")

	// Branch current flows out of the source through the divider.
	i := res.SourceCurrents["V1"]
	near(t, math.Abs(real(i)), 10/2e3, 1e-9, "|I(V1)|")
}

func TestDCUnequalDivider(t *testing.T) {
	g := divider(t, 9, 2e3, 1e3)

	res, err := DC(g)
	if err != nil {
		t.Fatalf("DC failed: %v", err)
	}
	near(t, real(res.Voltages[1]), 9*1e3/3e3, 1e-9, "V(mid)")
}

func TestDCZeroSource(t *testing.T) {
	g := divider(t, 0, 1e3, 1e3)

	res, err := DC(g)
	if err != nil {
		t.Fatalf("DC failed: %v", err)
	}
	for i, v := range res.Voltages {
		if cmplx.Abs(v) > 1e-12 {
			t.Errorf("node %d should sit at 0V with a dead source, got %v", i, v)
		}
	}
}

func TestDCIdempotent(t *testing.T) {
	g := divider(t, 10, 1e3, 1e3)

	first, err := DC(g)
	if err != nil {
		t.Fatalf("first DC failed: %v", err)
	}
	second, err := DC(g)
	if err != nil {
		t.Fatalf("second DC failed: %v", err)
	}

	for i := range first.Voltages {
		if first.Voltages[i] != second.Voltages[i] {
			t.Errorf("node %d: %v then %v, solves must agree", i, first.Voltages[i], second.Voltages[i])
		}
	}
}

func TestDCNoGround(t *testing.T) {
	g := circuit.New()
	a := g.Node()
	b := g.Node()
	r, err := component.NewResistor("R1", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Add(r, a, b); err != nil {
		t.Fatal(err)
	}

	_, err = DC(g)
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("DC without ground must report a structural error, got %v", err)
	}
}

func TestDCFloatingNodeSingular(t *testing.T) {
	g := divider(t, 10, 1e3, 1e3)

	// A capacitor is open at DC, so its far node has no path to ground.
	floating := g.Node()
	c, err := component.NewCapacitor("C1", 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Add(c, 1, floating); err != nil {
		t.Fatal(err)
	}

	_, err = DC(g)
	var sing *SingularError
	if !errors.As(err, &sing) {
		t.Fatalf("floating node must surface as singular, got %v", err)
	}
}

func TestDCShortedSourceSingular(t *testing.T) {
	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		t.Fatal(err)
	}
	n := g.Node()

	src, err := component.NewVoltageSource("V1", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Both source pins on the same node: the constraint row cancels out.
	if err := g.Add(src, n, n); err != nil {
		t.Fatal(err)
	}
	r, err := component.NewResistor("R1", 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Add(r, n, gnd); err != nil {
		t.Fatal(err)
	}

	_, err = DC(g)
	var sing *SingularError
	if !errors.As(err, &sing) {
		t.Fatalf("degenerate source constraint must be singular, got %v", err)
	}
}

func TestDCCurrentSourceIntoResistor(t *testing.T) {
	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		t.Fatal(err)
	}
	top := g.Node()

	src, err := component.NewCurrentSource("I1", 2e-3, 0)
	if err != nil {
		t.Fatal(err)
	}
	r, err := component.NewResistor("R1", 1e3)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Add(src, top, gnd); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(r, top, gnd); err != nil {
		t.Fatal(err)
	}

	res, err := DC(g)
	if err != nil {
		t.Fatalf("DC failed: %v", err)
	}
	near(t, real(res.Voltages[0]), 2, 1e-9, "V(top)")
}
