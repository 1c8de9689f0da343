// Package sweep evaluates model functions over one- and two-dimensional
// parameter ranges and locates the maximising point.
package sweep

import (
	"math"

	"github.com/iwvelando/dac-optimizer/pkg/mathutil"
)

// Cell is one (x, y, value) triple of a grid.
type Cell struct {
	X     float64
	Y     float64
	Value float64
}

// Grid holds values over the Cartesian product of Xs and Ys. Values is indexed
// [row][column], rows following Ys and columns following Xs.
type Grid struct {
	Xs     []float64
	Ys     []float64
	Values [][]float64
}

// Dims returns the number of columns and rows.
func (g Grid) Dims() (cols, rows int) {
	return len(g.Xs), len(g.Ys)
}

// Cells flattens the grid in row-major order, which is also the order used
// to break ties in ArgMax.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.Xs)*len(g.Ys))
	for r, y := range g.Ys {
		for c, x := range g.Xs {
			cells = append(cells, Cell{X: x, Y: y, Value: g.Values[r][c]})
		}
	}
	return cells
}

// ArgMax returns the cell with the greatest value. NaN cells never win and
// the first maximum in row-major order is kept. ok is false when the grid is
// empty or every cell is NaN.
func (g Grid) ArgMax() (best Cell, ok bool) {
	best.Value = math.NaN()
	for _, cell := range g.Cells() {
		if mathutil.Greater(cell.Value, best.Value) {
			best = cell
			ok = true
		}
	}
	return best, ok
}

// Degenerate counts NaN cells.
func (g Grid) Degenerate() int {
	count := 0
	for _, row := range g.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				count++
			}
		}
	}
	return count
}

// Clamped returns a copy with every value raised to at least -max/ratio,
// where max is the ArgMax value. It is a display transform: NaN cells are left
// as gaps and a non-positive ratio or an all-NaN grid yields a plain copy.
func (g Grid) Clamped(ratio float64) Grid {
	out := Grid{Xs: g.Xs, Ys: g.Ys, Values: make([][]float64, len(g.Values))}
	best, ok := g.ArgMax()
	for r, row := range g.Values {
		out.Values[r] = make([]float64, len(row))
		for c, v := range row {
			if ok && ratio > 0 {
				v = mathutil.ClampBelow(v, -best.Value/ratio)
			}
			out.Values[r][c] = v
		}
	}
	return out
}

// Series is a one-dimensional sweep.
type Series struct {
	Xs []float64
	Ys []float64
}

// ArgMax returns the index of the greatest non-NaN value, first wins.
func (s Series) ArgMax() (idx int, ok bool) {
	best := math.NaN()
	for i, y := range s.Ys {
		if mathutil.Greater(y, best) {
			best = y
			idx = i
			ok = true
		}
	}
	return idx, ok
}

// ReplaceNaN returns a copy with NaN values replaced by substitute.
func (s Series) ReplaceNaN(substitute float64) Series {
	out := Series{Xs: s.Xs, Ys: make([]float64, len(s.Ys))}
	for i, y := range s.Ys {
		out.Ys[i] = mathutil.NaNTo(y, substitute)
	}
	return out
}
