// Package normal implements the standard normal distribution primitives used
// by the contract models.
package normal

import "math"

// Erfc approximates the complementary error function using the
// Abramowitz-Stegun rational approximation. The absolute error is below
// 1.2e-7 for every real x.
func Erfc(x float64) float64 {
	z := math.Abs(x)
	t := 1 / (1 + 0.5*z)
	r := t * math.Exp(-z*z-1.26551223+t*(1.00002368+t*(.37409196+
		t*(.09678418+t*(-.18628806+t*(.27886807+
			t*(-1.13520398+t*(1.48851587+t*(-.82215223+
				t*.17087277)))))))))
	if x >= 0 {
		return r
	}
	return 2 - r
}

// CDF is the standard normal cumulative distribution function.
func CDF(x float64) float64 {
	return 1 - 0.5*Erfc(x/math.Sqrt2)
}

// PDF is the standard normal density.
func PDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
