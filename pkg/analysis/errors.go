package analysis

import (
	"fmt"
)

// StructuralError reports a malformed graph: missing ground designation or a
// pin that never received a node. Detected before any solve is attempted.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s", e.Reason)
}

// SingularError reports a singular or ill-conditioned MNA system at one
// analysis point. Fatal for that point; AC sweeps record it and move on.
type SingularError struct {
	Freq float64
	Time float64
	Err  error
}

func (e *SingularError) Error() string {
	switch {
	case e.Freq > 0:
		return fmt.Sprintf("singular circuit at f=%g Hz: %v", e.Freq, e.Err)
	case e.Time > 0:
		return fmt.Sprintf("singular circuit at t=%g s: %v", e.Time, e.Err)
	default:
		return fmt.Sprintf("singular circuit: %v", e.Err)
	}
}

func (e *SingularError) Unwrap() error { return e.Err }
