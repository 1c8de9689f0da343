// Package mathutil provides comparison helpers with explicit NaN rules.
package mathutil

import "math"

// Sign is the outcome of a three-way comparison against zero.
type Sign int

const (
	// Negative means the value is strictly below zero.
	Negative Sign = iota - 1
	// Zero means the value is exactly zero.
	Zero
	// PositiveOrUndefined covers strictly positive values and NaN.
	PositiveOrUndefined
)

// Compare classifies val against zero. NaN is reported as
// PositiveOrUndefined so that searches narrow toward their lower bound.
func Compare(val float64) Sign {
	switch {
	case math.IsNaN(val):
		return PositiveOrUndefined
	case val < 0:
		return Negative
	case val > 0:
		return PositiveOrUndefined
	default:
		return Zero
	}
}

// Greater reports whether a beats b in a maximum search. NaN never beats
// anything, and anything that is not NaN beats NaN. Ties return false so the
// first-encountered value wins.
func Greater(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ClampBelow returns max(floor, val) with NaN passed through unchanged.
func ClampBelow(val, floor float64) float64 {
	if math.IsNaN(val) {
		return val
	}
	if val < floor {
		return floor
	}
	return val
}

// NaNTo replaces NaN with the given substitute.
func NaNTo(val, substitute float64) float64 {
	if math.IsNaN(val) {
		return substitute
	}
	return val
}
