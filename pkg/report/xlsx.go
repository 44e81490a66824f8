// Package report exports analysis results: XLSX workbooks via excelize and
// Bode plots via gonum/plot.
package report

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/xuri/excelize/v2"

	"rfsim/pkg/analysis"
	"rfsim/pkg/optimize"
)

// WriteSweepXLSX saves an AC sweep to an XLSX workbook: a Summary sheet with
// the sweep shape, and a Sweep sheet with frequency plus magnitude (dB) and
// phase (deg) per node. nodeNames labels the voltage columns in node
// creation order; missing names fall back to V1, V2, ...
func WriteSweepXLSX(filename string, res *analysis.ACResult, nodeNames []string) error {
	if len(res.Points) == 0 {
		return fmt.Errorf("report: sweep has no points to export")
	}

	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Points")
	f.SetCellValue(summary, "B1", len(res.Points))
	f.SetCellValue(summary, "A2", "Failures")
	f.SetCellValue(summary, "B2", len(res.Failures))
	f.SetCellValue(summary, "A3", "Start [Hz]")
	f.SetCellValue(summary, "B3", res.Points[0].Freq)
	f.SetCellValue(summary, "A4", "Stop [Hz]")
	f.SetCellValue(summary, "B4", res.Points[len(res.Points)-1].Freq)

	sheet := "Sweep"
	f.NewSheet(sheet)

	nodes := len(res.Points[0].Voltages)
	label := func(i int) string {
		if i < len(nodeNames) && nodeNames[i] != "" {
			return nodeNames[i]
		}
		return fmt.Sprintf("V%d", i+1)
	}

	f.SetCellValue(sheet, "A1", "Freq [Hz]")
	col := 2
	for i := 0; i < nodes; i++ {
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(sheet, cell, label(i)+" [dB]")
		col++
		cell, _ = excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(sheet, cell, label(i)+" [deg]")
		col++
	}

	for r, pt := range res.Points {
		row := r + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, pt.Freq)

		col = 2
		for _, v := range pt.Voltages {
			mag := cmplx.Abs(v)
			db := math.Inf(-1)
			if mag > 0 {
				db = 20 * math.Log10(mag)
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, db)
			col++

			cell, _ = excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, cmplx.Phase(v)*180/math.Pi)
			col++
		}
	}

	return f.SaveAs(filename)
}

// WriteOptimizationXLSX saves an optimization run: the searched parameters
// with their bounds and best values, plus fitness and evaluation counts.
func WriteOptimizationXLSX(filename string, params []optimize.Parameter, res *optimize.Result) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Fitness")
	f.SetCellValue(summary, "B1", res.Fitness)
	f.SetCellValue(summary, "A2", "Evaluations")
	f.SetCellValue(summary, "B2", res.Evaluations)
	f.SetCellValue(summary, "A3", "Converged")
	f.SetCellValue(summary, "B3", res.Converged)

	sheet := "Parameters"
	f.NewSheet(sheet)
	for c, h := range []string{"Name", "Min", "Max", "Best"} {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, prm := range params {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, prm.Name)
		cell, _ = excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, cell, prm.Min)
		cell, _ = excelize.CoordinatesToCellName(3, row)
		f.SetCellValue(sheet, cell, prm.Max)
		cell, _ = excelize.CoordinatesToCellName(4, row)
		f.SetCellValue(sheet, cell, res.Values[prm.Name])
	}

	return f.SaveAs(filename)
}
