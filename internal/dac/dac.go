// Package dac evaluates the dominant-assurance-contract model, where the
// number of pledges is approximated by a normal distribution over n
// Bernoulli trials with pledge probability exp(-λv).
package dac

import (
	"math"

	"github.com/iwvelando/dac-optimizer/internal/model"
	"github.com/iwvelando/dac-optimizer/pkg/normal"
)

// Outcome is the full record of a DAC evaluation.
type Outcome struct {
	Profit      float64 `json:"profit"`
	PledgeProb  float64 `json:"pledge"`
	SuccessProb float64 `json:"success"`
}

// PledgeProbability is exp(-λv).
func PledgeProbability(lambda, v float64) float64 {
	return math.Exp(-lambda * v)
}

// Evaluate computes profit, pledge probability and success probability for
// threshold k and pledge value v. When the pledge count has no spread the
// normal approximation is invalid and Profit and SuccessProb are NaN.
func Evaluate(p model.Parameters, k int, v float64) (Outcome, error) {
	if err := p.ValidateDAC(); err != nil {
		return Outcome{}, err
	}

	n := float64(p.N)
	pledge := PledgeProbability(p.Lambda, v)
	stdev := math.Sqrt(n * pledge * (1 - pledge))
	if stdev == 0 || math.IsNaN(stdev) {
		return Outcome{Profit: math.NaN(), PledgeProb: pledge, SuccessProb: math.NaN()}, nil
	}

	z := (float64(k) - n*pledge) / stdev
	pivotal := normal.PDF(z) / stdev
	success := 1 - normal.CDF(z)
	return Outcome{
		Profit:      v*float64(k)*pivotal - p.Cost*success,
		PledgeProb:  pledge,
		SuccessProb: success,
	}, nil
}

// Profit is Evaluate reduced to the expected profit.
func Profit(p model.Parameters, k int, v float64) (float64, error) {
	out, err := Evaluate(p, k, v)
	if err != nil {
		return 0, err
	}
	return out.Profit, nil
}

// OptimalThreshold rounds the expected pledge count n·exp(-λv) to the
// nearest integer.
func OptimalThreshold(lambda float64, n int, v float64) int {
	return int(PledgeProbability(lambda, v)*float64(n) + 0.5)
}

// Optimize evaluates the profit at the threshold chosen by OptimalThreshold.
// It is a one-shot heuristic, not a search over k.
func Optimize(p model.Parameters, v float64) (float64, error) {
	return Profit(p, OptimalThreshold(p.Lambda, p.N, v), v)
}
