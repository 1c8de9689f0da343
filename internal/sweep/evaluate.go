package sweep

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Options controls grid evaluation.
type Options struct {
	// Workers is the number of rows evaluated concurrently. Values below 2
	// evaluate sequentially. Results and tie-breaking do not depend on it.
	Workers int
}

// Evaluate2D evaluates fn at every (x, y) of xs × ys. The first error aborts
// the sweep.
func Evaluate2D(ctx context.Context, xs, ys []float64, fn func(x, y float64) (float64, error), opts Options) (Grid, error) {
	g := Grid{Xs: xs, Ys: ys, Values: make([][]float64, len(ys))}

	evalRow := func(ctx context.Context, r int) error {
		row := make([]float64, len(xs))
		for c, x := range xs {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := fn(x, ys[r])
			if err != nil {
				return fmt.Errorf("evaluating x=%v y=%v: %w", x, ys[r], err)
			}
			row[c] = v
		}
		g.Values[r] = row
		return nil
	}

	if opts.Workers < 2 {
		for r := range ys {
			if err := evalRow(ctx, r); err != nil {
				return Grid{}, err
			}
		}
		return g, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for r := range ys {
		r := r
		eg.Go(func() error {
			return evalRow(egCtx, r)
		})
	}
	if err := eg.Wait(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Evaluate1D evaluates fn at every x. Each point is its own row so that
// Workers applies to one-dimensional sweeps as well.
func Evaluate1D(ctx context.Context, xs []float64, fn func(x float64) (float64, error), opts Options) (Series, error) {
	grid, err := Evaluate2D(ctx, []float64{0}, xs, func(_, x float64) (float64, error) {
		return fn(x)
	}, opts)
	if err != nil {
		return Series{}, err
	}
	ys := make([]float64, len(xs))
	for i, row := range grid.Values {
		ys[i] = row[0]
	}
	return Series{Xs: xs, Ys: ys}, nil
}
