// Package matrix wraps the sparse LU solver with the complex MNA system the
// analyses assemble into. Indices are 1-based, matching the solver.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// System is an n x n complex linear system Ax = b with direct factorization.
type System struct {
	Size int

	matrix *sparse.Matrix
	rhs    []float64 // interleaved re/im, 1-based
}

func NewSystem(size int) (*System, error) {
	// Translate keeps external indices valid after the first factorization
	// reorders the matrix; without it the solver rejects element access once
	// a sweep or transient loop restamps a factored system.
	config := &sparse.Configuration{
		Real:           true,
		Complex:        true,
		Expandable:     true,
		Translate:      true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &System{
		Size:   size,
		matrix: mat,
		rhs:    make([]float64, 2*(size+1)),
	}, nil
}

// SetupElements creates every matrix element up front so the sparsity
// structure is fixed before the first factorization. Callers that stamp and
// solve repeatedly should call this once after NewSystem; later stamps then
// reuse the existing elements instead of inserting into a factored matrix.
func (s *System) SetupElements() {
	for i := 1; i <= s.Size; i++ {
		for j := 1; j <= s.Size; j++ {
			s.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (s *System) checkIndex(i, j int) error {
	if i <= 0 || j <= 0 || i > s.Size || j > s.Size {
		return fmt.Errorf("matrix index out of bounds (i=%d, j=%d, size=%d)", i, j, s.Size)
	}
	return nil
}

// AddElement accumulates value into A(i, j).
func (s *System) AddElement(i, j int, value complex128) error {
	if err := s.checkIndex(i, j); err != nil {
		return err
	}
	element := s.matrix.GetElement(int64(i), int64(j))
	element.Real += real(value)
	element.Imag += imag(value)
	return nil
}

// AddRHS accumulates value into b(i).
func (s *System) AddRHS(i int, value complex128) error {
	if err := s.checkIndex(i, i); err != nil {
		return err
	}
	s.rhs[2*i] += real(value)
	s.rhs[2*i+1] += imag(value)
	return nil
}

// Clear zeroes matrix values and RHS while keeping the sparsity structure.
func (s *System) Clear() {
	s.matrix.Clear()
	for i := range s.rhs {
		s.rhs[i] = 0
	}
}

// Solve factors and solves in place. A zero pivot reports as ErrSingular.
func (s *System) Solve() ([]complex128, error) {
	if err := s.matrix.Factor(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	solution, _, err := s.matrix.SolveComplex(s.rhs, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %v", err)
	}

	// interleaved re/im pairs, 1-based
	out := make([]complex128, s.Size+1)
	for i := 1; i <= s.Size; i++ {
		out[i] = complex(solution[2*i], solution[2*i+1])
	}
	return out, nil
}

func (s *System) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
	}
}
