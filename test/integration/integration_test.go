package integration

import (
	"bytes"
	"context"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/iwvelando/dac-optimizer/internal/analysis"
	"github.com/iwvelando/dac-optimizer/internal/config"
	"github.com/iwvelando/dac-optimizer/internal/render"
	"github.com/iwvelando/dac-optimizer/pkg/optimization"
	"github.com/iwvelando/dac-optimizer/pkg/output"
	"github.com/iwvelando/dac-optimizer/pkg/testutil"
	"go.uber.org/zap"
)

// runTestConfig loads the shared test configuration and runs every plot in it.
func runTestConfig(t *testing.T, format string, workers int, renderer render.Renderer) ([]optimization.Summary, string) {
	t.Helper()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Output.Directory = t.TempDir()
	conf.Sweep.Workers = workers

	var buf bytes.Buffer
	printer, err := output.NewPrinter(&buf, format)
	if err != nil {
		t.Fatalf("NewPrinter() error = %v", err)
	}
	runner, err := analysis.NewRunner(zap.NewNop(), conf, renderer, printer)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	summaries, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return summaries, buf.String()
}

// TestMainIntegrationBaseline checks the maxima of every plot in the test
// configuration against independently computed reference values.
func TestMainIntegrationBaseline(t *testing.T) {
	summaries, out := runTestConfig(t, "pretty", 2, render.NewPlotRenderer(4, 3))

	if len(summaries) != 4 {
		t.Fatalf("Expected 4 plots, got %d", len(summaries))
	}

	baseline := []struct {
		plot  string
		kind  string
		x, y  float64
		value float64
	}{
		{"contract", "contour", 10, 0.1, 3.663151381352415},
		{"dac", "contour", 950, 5, -12.089757699132804},
		{"optdac", "line", 9, 0, 121.55134418479531},
		{"rhs", "line", 4.43215026584749, 0, 4.43215026584749},
	}

	for i, expected := range baseline {
		s := summaries[i]
		t.Run(expected.plot, func(t *testing.T) {
			if s.Plot != expected.plot || s.Kind != expected.kind {
				t.Fatalf("Expected plot %s (%s), got %s (%s)", expected.plot, expected.kind, s.Plot, s.Kind)
			}
			if !s.Found {
				t.Fatalf("Expected a maximum for %s", s.Plot)
			}
			if math.Abs(s.X-expected.x) > 1e-9 || math.Abs(s.Y-expected.y) > 1e-9 {
				t.Errorf("Maximum at (%v, %v), expected (%v, %v)", s.X, s.Y, expected.x, expected.y)
			}
			if math.Abs(s.Value-expected.value) > 1e-6 {
				t.Errorf("Maximum value %v, expected %v", s.Value, expected.value)
			}
			info, err := os.Stat(s.File)
			if err != nil {
				t.Fatalf("Expected rendered file %s: %v", s.File, err)
			}
			if info.Size() == 0 {
				t.Errorf("Rendered file %s is empty", s.File)
			}
		})
	}

	for _, line := range []string{
		"--- Results for plot contract ---",
		"max t = 10, f = 0.1",
		"max K = 950, V* = 5",
		"max profit = ",
		"fixed point vs = 4.432150",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Output missing %q:\n%s", line, out)
		}
	}
}

// TestWorkerCountDoesNotChangeResults ensures concurrent grid evaluation
// reports exactly what a serial run reports.
func TestWorkerCountDoesNotChangeResults(t *testing.T) {
	serialRec := &testutil.RecordingRenderer{}
	serial, serialOut := runTestConfig(t, "csv", 0, serialRec)
	parallelRec := &testutil.RecordingRenderer{}
	parallel, parallelOut := runTestConfig(t, "csv", 4, parallelRec)

	ignoreFile := cmpopts.IgnoreFields(optimization.Summary{}, "File")
	if diff := cmp.Diff(serial, parallel, ignoreFile); diff != "" {
		t.Errorf("Summaries differ between serial and parallel runs (-serial +parallel):\n%s", diff)
	}
	if serialOut != parallelOut {
		t.Errorf("CSV output differs between serial and parallel runs")
	}
	if len(serialRec.Requests) != len(parallelRec.Requests) {
		t.Fatalf("Render requests %d != %d", len(serialRec.Requests), len(parallelRec.Requests))
	}
	for i := range serialRec.Requests {
		if diff := cmp.Diff(serialRec.Requests[i].Grid, parallelRec.Requests[i].Grid, cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("Grid %d differs (-serial +parallel):\n%s", i, diff)
		}
	}
}

// TestCSVOutputStructure validates the CSV report emitted for the test configuration.
func TestCSVOutputStructure(t *testing.T) {
	_, out := runTestConfig(t, "csv", 1, &testutil.RecordingRenderer{})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	headers := 0
	rows := 0
	for _, line := range lines {
		if strings.HasPrefix(line, `"plot",`) {
			headers++
			continue
		}
		rows++
		if !strings.HasPrefix(line, `"contract",`) && !strings.HasPrefix(line, `"dac",`) &&
			!strings.HasPrefix(line, `"optdac",`) && !strings.HasPrefix(line, `"rhs",`) {
			t.Errorf("Unexpected CSV row: %s", line)
		}
	}

	if headers != 4 {
		t.Errorf("Expected 4 CSV headers, got %d", headers)
	}
	// 2x2 contract, 2x2 dac, 9 optdac values and 15 rhs points.
	if rows != 4+4+9+15 {
		t.Errorf("Expected %d CSV rows, got %d", 4+4+9+15, rows)
	}
}
