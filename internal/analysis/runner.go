// Package analysis runs the configured parameter sweeps, reports their
// maximising points and hands each grid to the renderer.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/dac-optimizer/internal/config"
	"github.com/iwvelando/dac-optimizer/internal/contract"
	"github.com/iwvelando/dac-optimizer/internal/dac"
	"github.com/iwvelando/dac-optimizer/internal/render"
	"github.com/iwvelando/dac-optimizer/internal/sweep"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/optimization"
	"github.com/iwvelando/dac-optimizer/pkg/output"
	"go.uber.org/zap"
)

// Runner evaluates plots from a configuration.
type Runner struct {
	logger   *zap.Logger
	conf     *config.Configuration
	renderer render.Renderer
	printer  *output.Printer
	opts     sweep.Options
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration, renderer render.Renderer, printer *output.Printer) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}
	if printer == nil {
		return nil, fmt.Errorf("printer cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:   logger,
		conf:     conf,
		renderer: renderer,
		printer:  printer,
		opts:     sweep.Options{Workers: conf.Sweep.Workers},
	}, nil
}

// Run renders every configured plot in configuration order and stops at the
// first error.
func (r *Runner) Run(ctx context.Context) ([]optimization.Summary, error) {
	var summaries []optimization.Summary
	add := func(s optimization.Summary, err error) error {
		if err != nil {
			return err
		}
		summaries = append(summaries, s)
		return nil
	}

	for _, p := range r.conf.ContractPlots {
		if err := add(r.PlotContract(ctx, p)); err != nil {
			return nil, fmt.Errorf("contract plot %s: %w", p.Name, err)
		}
	}
	for _, p := range r.conf.DACPlots {
		if err := add(r.PlotDAC(ctx, p)); err != nil {
			return nil, fmt.Errorf("dac plot %s: %w", p.Name, err)
		}
	}
	for _, p := range r.conf.OptDACPlots {
		if err := add(r.PlotOptDAC(ctx, p)); err != nil {
			return nil, fmt.Errorf("optimal dac plot %s: %w", p.Name, err)
		}
	}
	for _, p := range r.conf.RHSPlots {
		if err := add(r.PlotRHS(ctx, p)); err != nil {
			return nil, fmt.Errorf("rhs plot %s: %w", p.Name, err)
		}
	}
	return summaries, nil
}

// PlotContract sweeps target (x) and penalty (y) through the contract solver
// and renders the selected result field.
func (r *Runner) PlotContract(ctx context.Context, p config.ContractPlot) (optimization.Summary, error) {
	ts, err := p.Target.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("target: %w", err)
	}
	fs, err := p.Penalty.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("penalty: %w", err)
	}

	base := p.Parameters()
	solve := func(t, f float64) (contract.SolveResult, error) {
		params := base
		params.Target = t
		params.Penalty = f
		return contract.Solve(params)
	}

	grid, err := sweep.Evaluate2D(ctx, ts, fs, func(t, f float64) (float64, error) {
		res, err := solve(t, f)
		if err != nil {
			return 0, err
		}
		return res.Field(p.Field)
	}, r.opts)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := r.gridSummary(p.Name, render.Contour, p.File, grid)
	if summary.Found {
		res, err := solve(summary.X, summary.Y)
		if err != nil {
			return optimization.Summary{}, err
		}
		r.printer.ContractMax(p.Name, sweep.Cell{X: summary.X, Y: summary.Y, Value: summary.Value}, res)
	} else {
		r.printer.NoMaximum(p.Name)
	}
	r.printer.GridCSV(p.Name, "T", "F", p.Field, grid)

	err = r.render(summary, render.Request{
		Kind:   render.Contour,
		Title:  p.Title,
		XLabel: "T",
		YLabel: "F",
		Grid:   grid.Clamped(r.conf.Render.ClampRatio),
		Levels: r.conf.Render.Levels,
	})
	return summary, err
}

// PlotDAC sweeps threshold K (x) and pledge value V* (y) through the DAC
// profit and renders the profit surface.
func (r *Runner) PlotDAC(ctx context.Context, p config.DACPlot) (optimization.Summary, error) {
	ks, err := p.K.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("k: %w", err)
	}
	vs, err := p.Value.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("value: %w", err)
	}

	params := p.Parameters()
	if err := params.ValidateDAC(); err != nil {
		return optimization.Summary{}, err
	}

	grid, err := sweep.Evaluate2D(ctx, ks, vs, func(k, v float64) (float64, error) {
		return dac.Profit(params, threshold(k), v)
	}, r.opts)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := r.gridSummary(p.Name, render.Contour, p.File, grid)
	if summary.Found {
		out, err := dac.Evaluate(params, threshold(summary.X), summary.Y)
		if err != nil {
			return optimization.Summary{}, err
		}
		r.printer.DACMax(p.Name, sweep.Cell{X: summary.X, Y: summary.Y, Value: summary.Value}, out)
	} else {
		r.printer.NoMaximum(p.Name)
	}
	r.printer.GridCSV(p.Name, "K", "V*", constants.FieldProfit, grid)

	err = r.render(summary, render.Request{
		Kind:   render.Contour,
		Title:  "Profit",
		XLabel: "K",
		YLabel: "V*",
		Grid:   grid.Clamped(r.conf.Render.ClampRatio),
		Levels: r.conf.Render.Levels,
	})
	return summary, err
}

// PlotOptDAC plots the profit at the heuristic optimal threshold for each
// pledge value. Degenerate points are drawn and reported as zero profit.
func (r *Runner) PlotOptDAC(ctx context.Context, p config.OptDACPlot) (optimization.Summary, error) {
	vs, err := p.Value.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("value: %w", err)
	}

	params := p.Parameters()
	if err := params.ValidateDAC(); err != nil {
		return optimization.Summary{}, err
	}

	raw, err := sweep.Evaluate1D(ctx, vs, func(v float64) (float64, error) {
		return dac.Optimize(params, v)
	}, r.opts)
	if err != nil {
		return optimization.Summary{}, err
	}
	series := raw.ReplaceNaN(0)

	summary := r.seriesSummary(p.Name, p.File, raw, series)
	if summary.Found {
		r.printer.SeriesMax(p.Name, constants.FieldProfit, summary.X, summary.Value)
	}
	r.printer.SeriesCSV(p.Name, "V*", constants.FieldProfit, series)

	err = r.render(summary, render.Request{
		Kind:   render.Line,
		XLabel: "V*",
		YLabel: "Profit",
		Series: []render.Series{{Xs: series.Xs, Ys: series.Ys}},
	})
	return summary, err
}

// PlotRHS plots the fixed-point right-hand side against the identity line so
// the equilibrium pledge appears as their crossing.
func (r *Runner) PlotRHS(ctx context.Context, p config.RHSPlot) (optimization.Summary, error) {
	xs, err := p.X.Values()
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("x: %w", err)
	}

	params := p.Parameters()
	if err := params.ValidateContract(); err != nil {
		return optimization.Summary{}, err
	}

	series, err := sweep.Evaluate1D(ctx, xs, func(x float64) (float64, error) {
		return contract.RHS(params.Lambda, params.N, params.Target, params.Penalty, x)
	}, r.opts)
	if err != nil {
		return optimization.Summary{}, err
	}

	vs, err := contract.FindEquilibriumPledge(params.Lambda, params.N, params.Target, params.Penalty)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Plot:       p.Name,
		Kind:       render.Line.String(),
		File:       r.conf.OutputPath(p.File),
		X:          vs,
		Value:      vs,
		Found:      true,
		Points:     len(xs),
		Degenerate: countNaN(series.Ys),
	}
	r.printer.FixedPoint(p.Name, vs)
	r.printer.SeriesCSV(p.Name, "x", "rhs", series)

	maxX := math.Inf(-1)
	for _, x := range xs {
		maxX = math.Max(maxX, x)
	}
	err = r.render(summary, render.Request{
		Kind:   render.Line,
		XLabel: "vs",
		YLabel: "RHS",
		Series: []render.Series{
			{Label: "rhs", Xs: series.Xs, Ys: series.Ys},
			{Label: "identity", Xs: xs, Ys: xs},
		},
		LimitY: true,
		YMin:   0,
		YMax:   constants.RHSYLimitFactor * maxX,
	})
	return summary, err
}

func (r *Runner) gridSummary(name string, kind render.Kind, file string, grid sweep.Grid) optimization.Summary {
	cols, rows := grid.Dims()
	best, ok := grid.ArgMax()
	return optimization.Summary{
		Plot:       name,
		Kind:       kind.String(),
		File:       r.conf.OutputPath(file),
		X:          best.X,
		Y:          best.Y,
		Value:      best.Value,
		Found:      ok,
		Points:     cols * rows,
		Degenerate: grid.Degenerate(),
	}
}

func (r *Runner) seriesSummary(name, file string, raw, display sweep.Series) optimization.Summary {
	summary := optimization.Summary{
		Plot:       name,
		Kind:       render.Line.String(),
		File:       r.conf.OutputPath(file),
		Points:     len(raw.Xs),
		Degenerate: countNaN(raw.Ys),
	}
	if idx, ok := display.ArgMax(); ok {
		summary.X = display.Xs[idx]
		summary.Value = display.Ys[idx]
		summary.Found = true
	}
	return summary
}

func (r *Runner) render(summary optimization.Summary, req render.Request) error {
	req.Path = summary.File
	if err := r.renderer.Render(req); err != nil {
		if errors.Is(err, render.ErrEmptyRequest) {
			r.logger.Warn("nothing to render",
				zap.String("op", "analysis"),
				zap.String("plot", summary.Plot),
				zap.Error(err),
			)
			return nil
		}
		return fmt.Errorf("render %s: %w", summary.File, err)
	}

	if summary.Degenerate > 0 {
		r.logger.Debug("degenerate points skipped",
			zap.String("op", "analysis"),
			zap.String("plot", summary.Plot),
			zap.Int("degenerate", summary.Degenerate),
		)
	}
	r.logger.Info("rendered plot",
		zap.String("op", "analysis"),
		zap.String("plot", summary.Plot),
		zap.String("kind", summary.Kind),
		zap.String("file", summary.File),
		zap.Int("points", summary.Points),
		zap.Bool("found", summary.Found),
		zap.Float64("x", summary.X),
		zap.Float64("y", summary.Y),
		zap.Float64("value", summary.Value),
	)
	return nil
}

func threshold(k float64) int {
	return int(math.Round(k))
}

func countNaN(values []float64) int {
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}
