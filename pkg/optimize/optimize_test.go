package optimize

import (
	"math"
	"testing"
)

// quadratic builds a problem whose fitness peaks at x=3, y=-2 inside the
// bounds, using a Minimize objective over the squared distance.
func quadratic(seed int64) *Problem {
	p := NewProblem(seed)
	p.AddParameter("x", -10, 10, 0)
	p.AddParameter("y", -10, 10, 0)
	p.AddObjective("distance", Minimize, 0, 1)
	p.SetMeasurement(func(params []Parameter) []float64 {
		x := params[0].Value
		y := params[1].Value
		return []float64{(x-3)*(x-3) + (y+2)*(y+2)}
	})
	return p
}

type strategy interface {
	Optimize(*Problem) (*Result, error)
}

func TestStrategiesFindQuadraticOptimum(t *testing.T) {
	cases := []struct {
		name string
		s    strategy
		tol  float64
	}{
		{"ga", GAConfig{}, 0.3},
		{"pso", PSOConfig{}, 0.05},
		{"de", DEConfig{}, 0.05},
		{"sa", SAConfig{}, 0.3},
		{"nm", NMConfig{}, 0.05},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := quadratic(42)
			res, err := c.s.Optimize(p)
			if err != nil {
				t.Fatalf("Optimize failed: %v", err)
			}

			if math.Abs(res.Values["x"]-3) > c.tol {
				t.Errorf("x = %g, want 3 (tol %g)", res.Values["x"], c.tol)
			}
			if math.Abs(res.Values["y"]+2) > c.tol {
				t.Errorf("y = %g, want -2 (tol %g)", res.Values["y"], c.tol)
			}
			if res.Evaluations == 0 {
				t.Error("no fitness evaluations recorded")
			}
		})
	}
}

func TestTargetObjective(t *testing.T) {
	p := NewProblem(7)
	p.AddParameter("r", 10, 10e3, 100)
	p.AddObjective("v", Target, 3.3, 1)
	p.SetMeasurement(func(params []Parameter) []float64 {
		r := params[0].Value
		return []float64{10 * r / (1e3 + r)}
	})

	res, err := DEConfig{}.Optimize(p)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	r := res.Values["r"]
	v := 10 * r / (1e3 + r)
	if math.Abs(v-3.3) > 0.01 {
		t.Errorf("tap voltage = %g, want 3.3", v)
	}
}

func TestMaximizeObjective(t *testing.T) {
	p := NewProblem(11)
	p.AddParameter("x", 0, 10, 0)
	p.AddObjective("peak", Maximize, 0, 1)
	p.SetMeasurement(func(params []Parameter) []float64 {
		x := params[0].Value
		return []float64{-(x - 7) * (x - 7)}
	})

	res, err := PSOConfig{}.Optimize(p)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if math.Abs(res.Values["x"]-7) > 0.05 {
		t.Errorf("x = %g, want 7", res.Values["x"])
	}
}

func TestCandidatesStayInBounds(t *testing.T) {
	p := NewProblem(3)
	p.AddParameter("x", 2, 5, 2)
	p.AddObjective("edge", Maximize, 0, 1)
	// The optimum of x^2 over [2, 5] sits on the upper bound; clamping
	// must keep every evaluated candidate inside.
	p.SetMeasurement(func(params []Parameter) []float64 {
		x := params[0].Value
		if x < 2 || x > 5 {
			t.Fatalf("candidate out of bounds: %g", x)
		}
		return []float64{x * x}
	})

	for _, s := range []strategy{GAConfig{}, PSOConfig{}, DEConfig{}, SAConfig{}, NMConfig{}} {
		res, err := s.Optimize(p)
		if err != nil {
			t.Fatalf("Optimize failed: %v", err)
		}
		if res.Values["x"] < 2 || res.Values["x"] > 5 {
			t.Errorf("result out of bounds: %g", res.Values["x"])
		}
		if math.Abs(res.Values["x"]-5) > 0.1 {
			t.Errorf("x = %g, expected the upper bound 5", res.Values["x"])
		}
	}
}

func TestProblemValidation(t *testing.T) {
	p := NewProblem(1)
	if _, err := (GAConfig{}).Optimize(p); err == nil {
		t.Error("empty problem should be rejected")
	}

	if err := p.AddParameter("x", 5, 5, 5); err == nil {
		t.Error("degenerate bounds should be rejected")
	}
	if err := p.AddParameter("", 0, 1, 0); err == nil {
		t.Error("empty parameter name should be rejected")
	}
	if err := p.AddObjective("o", Minimize, 0, 0); err == nil {
		t.Error("zero weight should be rejected")
	}

	if err := p.AddParameter("x", 0, 1, 5); err != nil {
		t.Fatalf("AddParameter failed: %v", err)
	}
	if got := p.Parameters()[0].Value; got != 1 {
		t.Errorf("initial value should clamp to 1, got %g", got)
	}

	if err := p.AddObjective("o", Minimize, 0, 1); err != nil {
		t.Fatalf("AddObjective failed: %v", err)
	}
	if _, err := (GAConfig{}).Optimize(p); err == nil {
		t.Error("problem without a measurement function should be rejected")
	}
}

func TestNelderMeadConverges(t *testing.T) {
	p := quadratic(42)
	res, err := NMConfig{Iterations: 500, Tolerance: 1e-9}.Optimize(p)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !res.Converged {
		t.Error("simplex should collapse on a smooth quadratic")
	}
}

func TestSeededRunsRepeat(t *testing.T) {
	a, err := DEConfig{}.Optimize(quadratic(99))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := DEConfig{}.Optimize(quadratic(99))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if a.Values["x"] != b.Values["x"] || a.Values["y"] != b.Values["y"] {
		t.Error("equal seeds must reproduce the same result")
	}
}
