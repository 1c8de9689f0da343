// Package rootfind locates zeros of scalar functions by bisection.
package rootfind

import (
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/mathutil"
)

// Result describes how a bisection search ended.
type Result struct {
	X          float64
	Iterations int
	// ExactZero is set when f(X) evaluated to exactly zero.
	ExactZero bool
}

// Bisect searches [xmin, xmax] for a zero of f. The bounds are assumed to
// bracket a sign change with f(xmin) < 0 < f(xmax); this is not checked, and
// an unbracketed interval still terminates at a meaningless point.
//
// The search stops once the midpoint is equal to one of the bounds, i.e. no
// further halving is representable, or when f(midpoint) is exactly zero. A NaN
// evaluation is treated as positive and narrows toward xmin.
func Bisect(f func(float64) float64, xmin, xmax float64) Result {
	var res Result
	for res.Iterations < constants.MaxBisectIterations {
		xmid := (xmin + xmax) / 2
		res.X = xmid
		if xmid == xmin || xmid == xmax {
			return res
		}
		res.Iterations++
		switch mathutil.Compare(f(xmid)) {
		case mathutil.Negative:
			xmin = xmid
		case mathutil.PositiveOrUndefined:
			xmax = xmid
		default:
			res.ExactZero = true
			return res
		}
	}
	return res
}

// BisectZero is Bisect returning only the located point.
func BisectZero(f func(float64) float64, xmin, xmax float64) float64 {
	return Bisect(f, xmin, xmax).X
}
