// Package output writes the human-readable and CSV reports of a sweep.
package output

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/iwvelando/dac-optimizer/internal/contract"
	"github.com/iwvelando/dac-optimizer/internal/dac"
	"github.com/iwvelando/dac-optimizer/internal/sweep"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer is the reporting channel. Pretty output names the maximising point
// and its full result record; CSV output dumps every evaluated cell.
type Printer struct {
	w      io.Writer
	format string
	p      *message.Printer
}

// NewPrinter returns a Printer writing in the given format.
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return nil, err
	}
	return &Printer{w: w, format: format, p: message.NewPrinter(language.English)}, nil
}

// Format returns the configured output format.
func (pr *Printer) Format() string {
	return pr.format
}

// ContractMax reports the maximising (t, f) cell of a contract sweep and the
// solver record at that point.
func (pr *Printer) ContractMax(name string, best sweep.Cell, res contract.SolveResult) {
	if pr.format != constants.OutputFormatPretty {
		return
	}
	pr.header(name)
	pr.printf("max t = %v, f = %v, z = %v\n", best.X, best.Y, best.Value)
	pr.printf("max result = {smean: %.4f, svar: %.4f, z: %.6f, success: %.6f, pdf: %.6g, vs: %.6f, profit: %.4f}\n",
		res.Mean, res.Variance, res.Z, res.Success, res.Density, res.Pledge, res.Profit)
}

// DACMax reports the maximising (K, V*) cell of a DAC sweep.
func (pr *Printer) DACMax(name string, best sweep.Cell, out dac.Outcome) {
	if pr.format != constants.OutputFormatPretty {
		return
	}
	pr.header(name)
	pr.printf("max K = %v, V* = %v, profit = %v\n", best.X, best.Y, best.Value)
	pr.printf("max result = {profit: %.4f, pledge: %.6f, success: %.6f}\n",
		out.Profit, out.PledgeProb, out.SuccessProb)
}

// SeriesMax reports the largest value of a one-dimensional sweep.
func (pr *Printer) SeriesMax(name, label string, x, y float64) {
	if pr.format != constants.OutputFormatPretty {
		return
	}
	pr.header(name)
	pr.printf("max %s = %v at %v\n", label, y, x)
}

// FixedPoint reports the equilibrium pledge of an RHS diagnostic.
func (pr *Printer) FixedPoint(name string, vs float64) {
	if pr.format != constants.OutputFormatPretty {
		return
	}
	pr.header(name)
	pr.printf("fixed point vs = %.6f\n", vs)
}

// NoMaximum reports a sweep where every cell was degenerate.
func (pr *Printer) NoMaximum(name string) {
	if pr.format != constants.OutputFormatPretty {
		return
	}
	pr.header(name)
	pr.printf("no finite maximum: every evaluated point was degenerate\n")
}

// Solve reports a single contract evaluation.
func (pr *Printer) Solve(res contract.SolveResult) {
	pr.printf("vs = %.6f\nz = %.6f\nsuccess = %.6f\npdf = %.6g\nsmean = %.4f\nsvar = %.4f\nprofit = %.4f\n",
		res.Pledge, res.Z, res.Success, res.Density, res.Mean, res.Variance, res.Profit)
}

// DAC reports a single DAC evaluation.
func (pr *Printer) DAC(k int, out dac.Outcome) {
	pr.printf("k = %d\npledge = %.6f\nsuccess = %.6f\nprofit = %.4f\n", k, out.PledgeProb, out.SuccessProb, out.Profit)
}

// GridCSV writes every cell of g. It is a no-op for pretty output.
func (pr *Printer) GridCSV(name, xLabel, yLabel, valueLabel string, g sweep.Grid) {
	if pr.format != constants.OutputFormatCSV {
		return
	}
	fmt.Fprintf(pr.w, `"plot","%s","%s","%s"`+"\n", xLabel, yLabel, valueLabel)
	for _, cell := range g.Cells() {
		fmt.Fprintf(pr.w, `"%s","%s","%s","%s"`+"\n", name, csvFloat(cell.X), csvFloat(cell.Y), csvFloat(cell.Value))
	}
}

// SeriesCSV writes every point of s. It is a no-op for pretty output.
func (pr *Printer) SeriesCSV(name, xLabel, yLabel string, s sweep.Series) {
	if pr.format != constants.OutputFormatCSV {
		return
	}
	fmt.Fprintf(pr.w, `"plot","%s","%s"`+"\n", xLabel, yLabel)
	for i := range s.Xs {
		fmt.Fprintf(pr.w, `"%s","%s","%s"`+"\n", name, csvFloat(s.Xs[i]), csvFloat(s.Ys[i]))
	}
}

func (pr *Printer) header(name string) {
	if name != "" {
		pr.printf("--- Results for plot %s ---\n", name)
	}
}

func (pr *Printer) printf(format string, args ...interface{}) {
	_, _ = pr.p.Fprintf(pr.w, format, args...)
}

func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
