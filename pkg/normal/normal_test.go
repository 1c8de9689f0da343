package normal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestErfc(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Zero", 0, 1},
		{"Small positive", 0.5, math.Erfc(0.5)},
		{"One", 1, math.Erfc(1)},
		{"Negative one", -1, math.Erfc(-1)},
		{"Large positive", 6, math.Erfc(6)},
		{"Large negative", -6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Erfc(tt.input)
			if math.Abs(result-tt.expected) > 1.2e-7 {
				t.Errorf("Erfc(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestErfcReflection(t *testing.T) {
	for _, x := range []float64{0.1, 0.75, 1.5, 3, 10} {
		assert.InDelta(t, 2, Erfc(x)+Erfc(-x), 1e-15, "x=%v", x)
	}
}

func TestCDFSymmetry(t *testing.T) {
	for x := -8.0; x <= 8.0; x += 0.25 {
		if sum := CDF(x) + CDF(-x); math.Abs(sum-1) > 1e-6 {
			t.Errorf("CDF(%v)+CDF(%v) = %v, expected 1", x, -x, sum)
		}
	}
}

func TestCDFAnchors(t *testing.T) {
	assert.InDelta(t, 0.5, CDF(0), 1e-7)
	assert.Equal(t, 0.0, CDF(math.Inf(-1)))
	assert.Equal(t, 1.0, CDF(math.Inf(1)))
}

func TestCDFMonotonic(t *testing.T) {
	prev := CDF(-10)
	for x := -10.0; x <= 10.0; x += 0.01 {
		cur := CDF(x)
		if cur < prev {
			t.Fatalf("CDF decreased at x=%v: %v < %v", x, cur, prev)
		}
		prev = cur
	}
}

func TestCDFMatchesReference(t *testing.T) {
	for x := -5.0; x <= 5.0; x += 0.1 {
		assert.InDelta(t, distuv.UnitNormal.CDF(x), CDF(x), 1e-7, "x=%v", x)
	}
}

func TestPDF(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), PDF(0), 1e-15)
	for x := 0.0; x <= 6; x += 0.5 {
		assert.Equal(t, PDF(x), PDF(-x), "PDF must be symmetric at %v", x)
		assert.InDelta(t, distuv.UnitNormal.Prob(x), PDF(x), 1e-12)
		assert.GreaterOrEqual(t, PDF(x), 0.0)
	}
	assert.Equal(t, 0.0, PDF(math.Inf(1)))
}
