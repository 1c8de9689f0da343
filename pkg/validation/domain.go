package validation

import (
	"errors"
	"fmt"
)

// ErrDomain is matched by every DomainError through errors.Is.
var ErrDomain = errors.New("domain error")

// DomainError reports a violated precondition on a numerical input. It is a
// programming-contract violation and is never retried.
type DomainError struct {
	Op     string
	Param  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s = %v %s", e.Op, e.Param, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrDomain) succeed.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// RequirePositive fails unless value > 0.
func RequirePositive(op, param string, value float64) error {
	if value > 0 {
		return nil
	}
	return &DomainError{Op: op, Param: param, Value: value, Reason: "must be positive"}
}

// RequireNonNegative fails unless value >= 0.
func RequireNonNegative(op, param string, value float64) error {
	if value >= 0 {
		return nil
	}
	return &DomainError{Op: op, Param: param, Value: value, Reason: "must be non-negative"}
}
