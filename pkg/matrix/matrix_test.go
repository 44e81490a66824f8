package matrix

import (
	"errors"
	"math/cmplx"
	"testing"
)

func solveOnce(t *testing.T, size int, fill func(s *System)) []complex128 {
	t.Helper()
	s, err := NewSystem(size)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	defer s.Destroy()

	fill(s)
	x, err := s.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	return x
}

func TestSolveRealSystem(t *testing.T) {
	// | 2 1 | |x1|   | 5|
	// | 1 3 | |x2| = |10|   ->  x = (1, 3)
	x := solveOnce(t, 2, func(s *System) {
		s.AddElement(1, 1, 2)
		s.AddElement(1, 2, 1)
		s.AddElement(2, 1, 1)
		s.AddElement(2, 2, 3)
		s.AddRHS(1, 5)
		s.AddRHS(2, 10)
	})

	if cmplx.Abs(x[1]-1) > 1e-9 || cmplx.Abs(x[2]-3) > 1e-9 {
		t.Errorf("x = (%v, %v), want (1, 3)", x[1], x[2])
	}
}

func TestSolveComplexSystem(t *testing.T) {
	// (1+1i)x = 2i  ->  x = 1+1i
	x := solveOnce(t, 1, func(s *System) {
		s.AddElement(1, 1, complex(1, 1))
		s.AddRHS(1, complex(0, 2))
	})

	if cmplx.Abs(x[1]-complex(1, 1)) > 1e-9 {
		t.Errorf("x = %v, want (1+1i)", x[1])
	}
}

func TestElementsAccumulate(t *testing.T) {
	x := solveOnce(t, 1, func(s *System) {
		s.AddElement(1, 1, 2)
		s.AddElement(1, 1, 3)
		s.AddRHS(1, 10)
	})
	if cmplx.Abs(x[1]-2) > 1e-9 {
		t.Errorf("x = %v, want 2 (5x = 10)", x[1])
	}
}

func TestSingularSystem(t *testing.T) {
	s, err := NewSystem(2)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	defer s.Destroy()

	s.AddElement(1, 1, 1)
	s.AddElement(1, 2, 1)
	s.AddElement(2, 1, 1)
	s.AddElement(2, 2, 1)
	s.AddRHS(1, 1)

	_, err = s.Solve()
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("rank-deficient system must report ErrSingular, got %v", err)
	}
}

func TestClearResets(t *testing.T) {
	s, err := NewSystem(1)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	defer s.Destroy()

	s.AddElement(1, 1, 4)
	s.AddRHS(1, 8)
	x, err := s.Solve()
	if err != nil {
		t.Fatalf("first solve failed: %v", err)
	}
	if cmplx.Abs(x[1]-2) > 1e-9 {
		t.Fatalf("x = %v, want 2", x[1])
	}

	s.Clear()
	s.AddElement(1, 1, 2)
	s.AddRHS(1, 8)
	x, err = s.Solve()
	if err != nil {
		t.Fatalf("second solve failed: %v", err)
	}
	if cmplx.Abs(x[1]-4) > 1e-9 {
		t.Errorf("x after Clear = %v, want 4", x[1])
	}
}

func TestRestampAfterFactor(t *testing.T) {
	// Sweep pattern: stamp, factor, Clear, stamp again. The zero diagonal
	// forces a row interchange on the first factorization, so the later
	// stamps must survive a reordered matrix.
	s, err := NewSystem(2)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	defer s.Destroy()
	s.SetupElements()

	for k := 1.0; k <= 3; k++ {
		s.Clear()
		// | 0 1 | |x1|   |  k|
		// | 1 0 | |x2| = |2k|   ->  x = (2k, k)
		s.AddElement(1, 2, 1)
		s.AddElement(2, 1, 1)
		s.AddRHS(1, complex(k, 0))
		s.AddRHS(2, complex(2*k, 0))

		x, err := s.Solve()
		if err != nil {
			t.Fatalf("solve %g failed: %v", k, err)
		}
		if cmplx.Abs(x[1]-complex(2*k, 0)) > 1e-9 || cmplx.Abs(x[2]-complex(k, 0)) > 1e-9 {
			t.Fatalf("pass %g: x = (%v, %v), want (%g, %g)", k, x[1], x[2], 2*k, k)
		}
	}
}

func TestIndexBounds(t *testing.T) {
	s, err := NewSystem(2)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	defer s.Destroy()

	if err := s.AddElement(0, 1, 1); err == nil {
		t.Error("row 0 should be rejected (indices are 1-based)")
	}
	if err := s.AddElement(1, 3, 1); err == nil {
		t.Error("column beyond size should be rejected")
	}
	if err := s.AddRHS(3, 1); err == nil {
		t.Error("rhs index beyond size should be rejected")
	}
}
