// Package model defines the parameter record shared by the contract and
// dominant-assurance-contract solvers.
package model

import (
	"fmt"

	"github.com/iwvelando/dac-optimizer/pkg/validation"
)

// Parameters holds the inputs of a single model evaluation. Not every field is
// meaningful to every model: the penalty contract ignores Value and the DAC
// model ignores Target and Penalty.
type Parameters struct {
	Lambda  float64 `mapstructure:"lambda"`  // arrival rate
	N       int     `mapstructure:"n"`       // number of participants
	Cost    float64 `mapstructure:"cost"`    // c
	Target  float64 `mapstructure:"target"`  // t
	Penalty float64 `mapstructure:"penalty"` // f, fraction
	Value   float64 `mapstructure:"value"`   // v
}

// ValidateContract checks the preconditions of the penalty-contract model.
func (p Parameters) ValidateContract() error {
	const op = "contract"
	if err := validation.RequirePositive(op, "lambda", p.Lambda); err != nil {
		return err
	}
	if err := validation.RequireNonNegative(op, "penalty", p.Penalty); err != nil {
		return err
	}
	return requireParticipants(op, p.N)
}

// ValidateDAC checks the preconditions of the dominant-assurance-contract
// model. A zero arrival rate is allowed and yields a degenerate (NaN) profit.
func (p Parameters) ValidateDAC() error {
	const op = "dac"
	if err := validation.RequireNonNegative(op, "lambda", p.Lambda); err != nil {
		return err
	}
	return requireParticipants(op, p.N)
}

// String renders the parameters for log and report lines.
func (p Parameters) String() string {
	return fmt.Sprintf("lambda=%g n=%d c=%g t=%g f=%g v=%g",
		p.Lambda, p.N, p.Cost, p.Target, p.Penalty, p.Value)
}

func requireParticipants(op string, n int) error {
	if n < 1 {
		return &validation.DomainError{Op: op, Param: "n", Value: float64(n), Reason: "must be at least 1"}
	}
	return nil
}
