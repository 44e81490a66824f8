package filter

import (
	"fmt"
	"math"

	"rfsim/pkg/component"
)

// Class is the filter response shape.
type Class int

const (
	Lowpass Class = iota
	Highpass
	Bandpass
	Bandstop
	Allpass
)

var classNames = map[Class]string{
	Lowpass:  "lowpass",
	Highpass: "highpass",
	Bandpass: "bandpass",
	Bandstop: "bandstop",
	Allpass:  "allpass",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Spec is a filter design request. Cutoff drives lowpass/highpass/allpass;
// LowCutoff and HighCutoff bound the band for bandpass/bandstop. RippleDB is
// the passband ripple (Chebyshev-I, Elliptic) or stopband attenuation
// (Chebyshev-II); Butterworth and Bessel ignore it.
type Spec struct {
	Class      Class
	Family     Family
	Order      int
	Cutoff     float64
	LowCutoff  float64
	HighCutoff float64
	RippleDB   float64
	Impedance  float64
}

func (s Spec) validate() error {
	if s.Order < 1 {
		return fmt.Errorf("filter design: order must be at least 1, got %d", s.Order)
	}
	if s.Impedance <= 0 {
		return fmt.Errorf("filter design: reference impedance must be positive, got %g", s.Impedance)
	}
	switch s.Class {
	case Lowpass, Highpass, Allpass:
		if s.Cutoff <= 0 {
			return fmt.Errorf("filter design: cutoff frequency must be positive, got %g", s.Cutoff)
		}
	case Bandpass, Bandstop:
		if s.LowCutoff <= 0 || s.HighCutoff <= s.LowCutoff {
			return fmt.Errorf("filter design: bad band edges [%g, %g]", s.LowCutoff, s.HighCutoff)
		}
	default:
		return fmt.Errorf("filter design: unknown class %d", int(s.Class))
	}
	return nil
}

// Section is one ladder position. Shunt sections hang across the line to
// ground; the rest sit in series with it. Multi-part sections are band
// resonators: Parallel wires the parts side by side, otherwise they chain.
type Section struct {
	Shunt    bool
	Parallel bool
	Parts    []*component.Component
}

// Ladder is a realized filter: the prototype coefficients and the ordered
// element sections, ready to be registered into a circuit.
type Ladder struct {
	Spec     Spec
	Coeffs   []float64
	Sections []Section
}

// Components returns every element of the ladder in section order.
func (l *Ladder) Components() []*component.Component {
	var out []*component.Component
	for _, s := range l.Sections {
		out = append(out, s.Parts...)
	}
	return out
}

// Design computes the prototype for the request and realizes it as an LC
// ladder. Lowpass alternates series inductors and shunt capacitors starting
// with a series inductor; highpass is the dual; band filters substitute
// resonators for each prototype element.
func Design(spec Spec) (*Ladder, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	g, err := Prototype(spec.Family, spec.Order, spec.RippleDB)
	if err != nil {
		return nil, err
	}

	l := &Ladder{Spec: spec, Coeffs: g}
	if err := l.realize(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ladder) realize() error {
	z0 := l.Spec.Impedance

	switch l.Spec.Class {
	case Lowpass, Allpass:
		wc := 2 * math.Pi * l.Spec.Cutoff
		for i, g := range l.Coeffs {
			if i%2 == 0 {
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), g*z0/wc)
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Parts: []*component.Component{ind}})
			} else {
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), g/(z0*wc))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Shunt: true, Parts: []*component.Component{cpt}})
			}
		}

	case Highpass:
		wc := 2 * math.Pi * l.Spec.Cutoff
		for i, g := range l.Coeffs {
			if i%2 == 0 {
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), 1/(g*z0*wc))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Parts: []*component.Component{cpt}})
			} else {
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), z0/(g*wc))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Shunt: true, Parts: []*component.Component{ind}})
			}
		}

	case Bandpass:
		w1 := 2 * math.Pi * l.Spec.LowCutoff
		w2 := 2 * math.Pi * l.Spec.HighCutoff
		bw := w2 - w1
		w0sq := w1 * w2
		for i, g := range l.Coeffs {
			if i%2 == 0 {
				// Series branch: series LC tuned to the band center.
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), g*z0/bw)
				if err != nil {
					return err
				}
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), bw/(g*z0*w0sq))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Parts: []*component.Component{ind, cpt}})
			} else {
				// Shunt branch: parallel LC.
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), g/(z0*bw))
				if err != nil {
					return err
				}
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), z0*bw/(g*w0sq))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Shunt: true, Parallel: true, Parts: []*component.Component{cpt, ind}})
			}
		}

	case Bandstop:
		w1 := 2 * math.Pi * l.Spec.LowCutoff
		w2 := 2 * math.Pi * l.Spec.HighCutoff
		bw := w2 - w1
		w0sq := w1 * w2
		for i, g := range l.Coeffs {
			if i%2 == 0 {
				// Series branch: parallel LC trap.
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), g*z0*bw/w0sq)
				if err != nil {
					return err
				}
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), 1/(g*z0*bw))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Parallel: true, Parts: []*component.Component{ind, cpt}})
			} else {
				// Shunt branch: series LC to ground.
				ind, err := component.NewInductor(fmt.Sprintf("L%d", i+1), z0/(g*bw))
				if err != nil {
					return err
				}
				cpt, err := component.NewCapacitor(fmt.Sprintf("C%d", i+1), g*bw/(z0*w0sq))
				if err != nil {
					return err
				}
				l.Sections = append(l.Sections, Section{Shunt: true, Parts: []*component.Component{ind, cpt}})
			}
		}
	}

	return nil
}
