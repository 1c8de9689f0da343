package output

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/dac-optimizer/internal/contract"
	"github.com/iwvelando/dac-optimizer/internal/dac"
	"github.com/iwvelando/dac-optimizer/internal/sweep"
)

func TestNewPrinterRejectsUnknownFormat(t *testing.T) {
	if _, err := NewPrinter(&bytes.Buffer{}, "json"); err == nil {
		t.Error("NewPrinter(json) expected error but got none")
	}
}

func TestContractMaxPretty(t *testing.T) {
	var buf bytes.Buffer
	pr, err := NewPrinter(&buf, "pretty")
	if err != nil {
		t.Fatalf("NewPrinter() error = %v", err)
	}

	pr.ContractMax("baseline", sweep.Cell{X: 10, Y: 0.1, Value: 3.5}, contract.SolveResult{
		Pledge: 4.432, Z: 0.045, Success: 0.4819, Density: 0.3985, Profit: 3.6632, Mean: 9.91, Variance: 17.04,
	})
	output := buf.String()

	for _, want := range []string{
		"--- Results for plot baseline ---",
		"max t = 10, f = 0.1, z = 3.5",
		"vs: 4.432000",
		"success: 0.481900",
		"profit: 3.6632",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("ContractMax output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyUsesThousandsSeparators(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "pretty")

	pr.ContractMax("", sweep.Cell{X: 1, Y: 1, Value: 1}, contract.SolveResult{Mean: 19817.5})
	if !strings.Contains(buf.String(), "smean: 19,817.5000") {
		t.Errorf("expected English number formatting, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "---") {
		t.Errorf("unnamed plots should not print a header")
	}
}

func TestDACMaxPretty(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "pretty")

	pr.DACMax("dac", sweep.Cell{X: 951, Y: 5, Value: 21.5}, dac.Outcome{Profit: 21.5, PledgeProb: 0.9512, SuccessProb: 0.5134})
	output := buf.String()
	if !strings.Contains(output, "max K = 951, V* = 5, profit = 21.5") {
		t.Errorf("DACMax output missing maximum line:\n%s", output)
	}
	if !strings.Contains(output, "pledge: 0.951200") {
		t.Errorf("DACMax output missing record:\n%s", output)
	}
}

func TestPrettySkipsCSV(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "pretty")

	pr.GridCSV("g", "T", "F", "profit", sweep.Grid{Xs: []float64{1}, Ys: []float64{2}, Values: [][]float64{{3}}})
	pr.SeriesCSV("s", "V", "profit", sweep.Series{Xs: []float64{1}, Ys: []float64{2}})
	if buf.Len() != 0 {
		t.Errorf("pretty printer wrote CSV rows: %q", buf.String())
	}
}

func TestGridCSV(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "csv")

	g := sweep.Grid{
		Xs:     []float64{1, 2},
		Ys:     []float64{0.5},
		Values: [][]float64{{3.25, math.NaN()}},
	}
	pr.GridCSV("contract", "T", "F", "profit", g)
	pr.ContractMax("contract", sweep.Cell{}, contract.SolveResult{})

	expected := `"plot","T","F","profit"` + "\n" +
		`"contract","1","0.5","3.25"` + "\n" +
		`"contract","2","0.5",""` + "\n"
	if buf.String() != expected {
		t.Errorf("GridCSV() = %q, expected %q", buf.String(), expected)
	}
}

func TestSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "csv")

	pr.SeriesCSV("opt", "V", "profit", sweep.Series{Xs: []float64{1, 2}, Ys: []float64{-1.5, 0}})
	expected := `"plot","V","profit"` + "\n" +
		`"opt","1","-1.5"` + "\n" +
		`"opt","2","0"` + "\n"
	if buf.String() != expected {
		t.Errorf("SeriesCSV() = %q, expected %q", buf.String(), expected)
	}
}

func TestSingleEvaluations(t *testing.T) {
	var buf bytes.Buffer
	pr, _ := NewPrinter(&buf, "pretty")

	pr.Solve(contract.SolveResult{Pledge: 1.5, Profit: 2})
	pr.DAC(951, dac.Outcome{Profit: 21.63, PledgeProb: 0.95, SuccessProb: 0.51})
	output := buf.String()
	for _, want := range []string{"vs = 1.500000", "profit = 2.0000", "k = 951", "profit = 21.6300"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
