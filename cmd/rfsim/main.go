package main

import (
	"fmt"
	"log"
	"math"
	"math/cmplx"

	"rfsim/pkg/analysis"
	"rfsim/pkg/circuit"
	"rfsim/pkg/component"
	"rfsim/pkg/filter"
	"rfsim/pkg/optimize"
	"rfsim/pkg/report"
	"rfsim/pkg/util"
)

func main() {
	if err := dividerDemo(); err != nil {
		log.Fatal(err)
	}
	if err := rlcDemo(); err != nil {
		log.Fatal(err)
	}
	if err := transientDemo(); err != nil {
		log.Fatal(err)
	}
	if err := filterDemo(); err != nil {
		log.Fatal(err)
	}
	if err := optimizeDemo(); err != nil {
		log.Fatal(err)
	}
}

// dividerDemo solves the DC operating point of a 2:1 resistive divider.
func dividerDemo() error {
	fmt.Println("== DC: resistive divider ==")

	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		return err
	}
	in := g.Node()
	mid := g.Node()

	src, err := component.NewVoltageSource("V1", 10, 0)
	if err != nil {
		return err
	}
	r1, err := component.NewResistor("R1", 1e3)
	if err != nil {
		return err
	}
	r2, err := component.NewResistor("R2", 1e3)
	if err != nil {
		return err
	}

	if err := g.Add(src, in, gnd); err != nil {
		return err
	}
	if err := g.Add(r1, in, mid); err != nil {
		return err
	}
	if err := g.Add(r2, mid, gnd); err != nil {
		return err
	}

	res, err := analysis.DC(g)
	if err != nil {
		return err
	}
	fmt.Printf("V(in)  = %sV\n", util.FormatValueFactor(real(res.Voltages[0]), ""))
	fmt.Printf("V(mid) = %sV\n", util.FormatValueFactor(real(res.Voltages[1]), ""))
	fmt.Printf("I(V1)  = %sA\n\n", util.FormatValueFactor(real(res.SourceCurrents["V1"]), ""))
	return nil
}

// rlcDemo sweeps a series RLC and exports the sweep to XLSX.
func rlcDemo() error {
	fmt.Println("== AC: series RLC ==")

	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		return err
	}
	in := g.Node()
	n1 := g.Node()
	out := g.Node()

	src, err := component.NewVoltageSource("V1", 1, 0)
	if err != nil {
		return err
	}
	r, err := component.NewResistor("R1", 10)
	if err != nil {
		return err
	}
	l, err := component.NewInductor("L1", 1e-3)
	if err != nil {
		return err
	}
	c, err := component.NewCapacitor("C1", 1e-6)
	if err != nil {
		return err
	}

	if err := g.Add(src, in, gnd); err != nil {
		return err
	}
	if err := g.Add(r, in, n1); err != nil {
		return err
	}
	if err := g.Add(l, n1, out); err != nil {
		return err
	}
	if err := g.Add(c, out, gnd); err != nil {
		return err
	}

	res, err := analysis.AC(g, analysis.ACConfig{StartFreq: 100, StopFreq: 100e3, Points: 201})
	if err != nil {
		return err
	}

	// Peak |V(out)| marks the resonance, expected near 1/(2*pi*sqrt(LC)).
	peak := res.Points[0]
	for _, pt := range res.Points {
		if cmplx.Abs(pt.Voltages[2]) > cmplx.Abs(peak.Voltages[2]) {
			peak = pt
		}
	}
	fmt.Printf("resonance near %s, |V(out)| = %.3f\n", util.FormatFrequency(peak.Freq), cmplx.Abs(peak.Voltages[2]))

	if err := report.WriteSweepXLSX("rlc_sweep.xlsx", res, []string{"in", "n1", "out"}); err != nil {
		return err
	}
	fmt.Println("sweep written to rlc_sweep.xlsx")
	fmt.Println()
	return nil
}

// transientDemo charges a capacitor from a constant current source and
// checks the accumulated charge against Q = I*t.
func transientDemo() error {
	fmt.Println("== Transient: capacitor charging ==")

	g := circuit.New()
	gnd := g.Node()
	if err := g.SetGround(gnd); err != nil {
		return err
	}
	top := g.Node()

	src, err := component.NewCurrentSource("I1", 1e-3, 0)
	if err != nil {
		return err
	}
	c, err := component.NewCapacitor("C1", 1e-6)
	if err != nil {
		return err
	}

	if err := g.Add(src, top, gnd); err != nil {
		return err
	}
	if err := g.Add(c, top, gnd); err != nil {
		return err
	}

	res, err := analysis.Transient(g, analysis.TranConfig{StopTime: 1e-3, TimeStep: 1e-6}, nil)
	if err != nil {
		return err
	}

	fmt.Printf("after %ss: V(top) = %sV, Q = %sC (I*t = %sC)\n\n",
		util.FormatValueFactor(res.Time, ""),
		util.FormatValueFactor(real(res.Voltages[0]), ""),
		util.FormatValueFactor(c.Charge(), ""),
		util.FormatValueFactor(1e-3*res.Time, ""))
	return nil
}

// filterDemo designs a 5th order Butterworth lowpass and plots its response.
func filterDemo() error {
	fmt.Println("== Filter: Butterworth lowpass ==")

	l, err := filter.Design(filter.Spec{
		Class:     filter.Lowpass,
		Family:    filter.Butterworth,
		Order:     5,
		Cutoff:    1e6,
		Impedance: 50,
	})
	if err != nil {
		return err
	}

	for _, c := range l.Components() {
		switch c.Kind() {
		case component.Inductor:
			fmt.Printf("%s = %sH\n", c.Name(), util.FormatValueFactor(c.Param("inductance"), ""))
		case component.Capacitor:
			fmt.Printf("%s = %sF\n", c.Name(), util.FormatValueFactor(c.Param("capacitance"), ""))
		}
	}

	r, err := l.Response(1e4, 1e8, 301)
	if err != nil {
		return err
	}
	low, high, bw, q := r.Bandwidth()
	fmt.Printf("-3dB edges: %s .. %s, BW = %s, Q = %.2f\n",
		util.FormatFrequency(low), util.FormatFrequency(high), util.FormatFrequency(bw), q)

	if err := report.SaveBode("butterworth.png", "Butterworth LPF, order 5", r); err != nil {
		return err
	}
	fmt.Println("bode plot written to butterworth.png")
	fmt.Println()
	return nil
}

// optimizeDemo tunes a divider's lower resistor to hit a 3.3V tap from 10V,
// comparing two strategies on the same problem.
func optimizeDemo() error {
	fmt.Println("== Optimize: divider tap voltage ==")

	const vin, r1 = 10.0, 1e3
	prob := optimize.NewProblem(1)
	if err := prob.AddParameter("R2", 10, 10e3, 1e3); err != nil {
		return err
	}
	if err := prob.AddObjective("vtap", optimize.Target, 3.3, 1); err != nil {
		return err
	}
	prob.SetMeasurement(func(params []optimize.Parameter) []float64 {
		r2 := params[0].Value
		return []float64{vin * r2 / (r1 + r2)}
	})

	res, err := optimize.DEConfig{}.Optimize(prob)
	if err != nil {
		return err
	}
	r2 := res.Values["R2"]
	fmt.Printf("DE: R2 = %sOhm -> V(tap) = %.4fV (converged=%v, %d evals)\n",
		util.FormatValueFactor(r2, ""), vin*r2/(r1+r2), res.Converged, res.Evaluations)

	res, err = optimize.NMConfig{}.Optimize(prob)
	if err != nil {
		return err
	}
	r2 = res.Values["R2"]
	fmt.Printf("NM: R2 = %sOhm -> V(tap) = %.4fV (converged=%v)\n",
		util.FormatValueFactor(r2, ""), vin*r2/(r1+r2), res.Converged)

	if err := report.WriteOptimizationXLSX("divider_opt.xlsx", prob.Parameters(), res); err != nil {
		return err
	}
	fmt.Println("result written to divider_opt.xlsx")

	ideal := 3.3 * r1 / (vin - 3.3)
	fmt.Printf("closed form: R2 = %.1f Ohm (error %.2f%%)\n",
		ideal, 100*math.Abs(r2-ideal)/ideal)
	return nil
}
