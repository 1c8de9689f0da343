package contract

import (
	"fmt"
	"math"

	"github.com/iwvelando/dac-optimizer/internal/model"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/normal"
	"github.com/iwvelando/dac-optimizer/pkg/rootfind"
)

// SolveResult is the outcome of solving the penalty-contract model at one
// parameter point.
type SolveResult struct {
	Pledge   float64 `json:"vs"`      // equilibrium pledge value v*
	Z        float64 `json:"z"`       // aggregate z-score at v*
	Success  float64 `json:"success"` // probability the target is reached
	Density  float64 `json:"pdf"`     // normal density at Z
	Profit   float64 `json:"profit"`  // expected profit
	Mean     float64 `json:"smean"`   // n times the conditional mean
	Variance float64 `json:"svar"`    // n times the conditional variance
}

// Field returns the named result component.
func (r SolveResult) Field(name string) (float64, error) {
	switch name {
	case constants.FieldProfit:
		return r.Profit, nil
	case constants.FieldSuccess:
		return r.Success, nil
	case constants.FieldZ:
		return r.Z, nil
	case constants.FieldDensity:
		return r.Density, nil
	case constants.FieldPledge:
		return r.Pledge, nil
	case constants.FieldMean:
		return r.Mean, nil
	case constants.FieldVariance:
		return r.Variance, nil
	default:
		return 0, fmt.Errorf("unknown result field %q", name)
	}
}

// RHS evaluates the right-hand side of the fixed-point equation that the
// pledge value vs satisfies at equilibrium. When the normal density at the
// aggregate z-score is exactly zero the result saturates to an infinity
// carrying the sign of the numerator (NaN for a zero numerator).
func RHS(lambda float64, n int, t, f, vs float64) (float64, error) {
	m, err := ConditionalMoments(lambda, f, vs)
	if err != nil {
		return 0, err
	}
	z, err := AggregateZScore(n, t, m.Mean, m.Variance)
	if err != nil {
		return 0, err
	}
	numer := (1-normal.CDF(z))*(1+f) - f
	denom := normal.PDF(z)
	if denom == 0 {
		return math.Inf(1) * numer, nil
	}
	return math.Sqrt(float64(n-1)*m.Variance) * numer / denom, nil
}

// FindEquilibriumPledge bisects x - RHS(x) over [0, nλ]. The upper bound is a
// heuristic that is assumed, not verified, to bracket the fixed point.
func FindEquilibriumPledge(lambda float64, n int, t, f float64) (float64, error) {
	params := model.Parameters{Lambda: lambda, N: n, Target: t, Penalty: f}
	if err := params.ValidateContract(); err != nil {
		return 0, err
	}

	var rhsErr error
	g := func(x float64) float64 {
		rhs, err := RHS(lambda, n, t, f, x)
		if err != nil {
			if rhsErr == nil {
				rhsErr = err
			}
			return math.NaN()
		}
		return x - rhs
	}

	vs := rootfind.BisectZero(g, 0, float64(n)*lambda)
	if rhsErr != nil {
		return 0, fmt.Errorf("equilibrium pledge search failed: %w", rhsErr)
	}
	return vs, nil
}

// Solve finds the equilibrium pledge for p and evaluates success probability
// and expected profit there. When the success probability is exactly 0 or 1
// the conditional profit terms divide by zero and the IEEE-754 infinities or
// NaNs propagate into Profit unchanged.
func Solve(p model.Parameters) (SolveResult, error) {
	vs, err := FindEquilibriumPledge(p.Lambda, p.N, p.Target, p.Penalty)
	if err != nil {
		return SolveResult{}, err
	}
	m, err := ConditionalMoments(p.Lambda, p.Penalty, vs)
	if err != nil {
		return SolveResult{}, err
	}
	z, err := AggregateZScore(p.N, p.Target, m.Mean, m.Variance)
	if err != nil {
		return SolveResult{}, err
	}

	n := float64(p.N)
	success := 1 - normal.CDF(z)
	density := normal.PDF(z)
	spread := math.Sqrt(n * m.Variance)

	profitIfSucceed := n*m.Mean - p.Cost + spread*density/success
	profitIfFail := -p.Penalty * (n*m.Mean - spread*density/(1-success))

	return SolveResult{
		Pledge:   vs,
		Z:        z,
		Success:  success,
		Density:  density,
		Profit:   profitIfSucceed*success + profitIfFail*(1-success),
		Mean:     n * m.Mean,
		Variance: n * m.Variance,
	}, nil
}
