// Package contract evaluates the penalty-contract model: conditional moments
// of a single contribution, the aggregate z-score, and the equilibrium pledge
// value that maximises expected profit.
package contract

import (
	"math"

	"github.com/iwvelando/dac-optimizer/pkg/validation"
)

// Moments are the mean and variance of one contribution conditional on the
// pledge threshold being met.
type Moments struct {
	Mean     float64
	Variance float64
}

// ConditionalMean returns exp(-λv) / (2λ(1+f)).
func ConditionalMean(lambda, f, v float64) (float64, error) {
	if err := validation.RequirePositive("ConditionalMean", "lambda", lambda); err != nil {
		return 0, err
	}
	return math.Exp(-lambda*v) / (2 * lambda * (1 + f)), nil
}

// ConditionalVariance returns p(2-p) / (4λ²(1+f)²) with p = exp(-λv). The
// result is never negative for v >= 0.
func ConditionalVariance(lambda, f, v float64) (float64, error) {
	if err := validation.RequirePositive("ConditionalVariance", "lambda", lambda); err != nil {
		return 0, err
	}
	if err := validation.RequireNonNegative("ConditionalVariance", "v", v); err != nil {
		return 0, err
	}
	p := math.Exp(-lambda * v)
	return p * (2 - p) / (4 * lambda * lambda * (1 + f) * (1 + f)), nil
}

// ConditionalMoments evaluates both conditional moments at v.
func ConditionalMoments(lambda, f, v float64) (Moments, error) {
	mean, err := ConditionalMean(lambda, f, v)
	if err != nil {
		return Moments{}, err
	}
	variance, err := ConditionalVariance(lambda, f, v)
	if err != nil {
		return Moments{}, err
	}
	return Moments{Mean: mean, Variance: variance}, nil
}

// AggregateZScore standardises the target t against the sum of the other n-1
// contributions. Zero variance yields +Inf regardless of which side of the
// deterministic sum t lies on.
func AggregateZScore(n int, t, mean, variance float64) (float64, error) {
	if err := validation.RequireNonNegative("AggregateZScore", "variance", variance); err != nil {
		return 0, err
	}
	if variance == 0 {
		return math.Inf(1), nil
	}
	others := float64(n - 1)
	return (t - others*mean) / math.Sqrt(others*variance), nil
}
