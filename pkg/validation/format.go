// Package validation provides precondition checks and the domain error type
// shared by the numerical packages.
package validation

import (
	"fmt"

	"github.com/iwvelando/dac-optimizer/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateResultField checks that a contract plot field names a solver output.
func ValidateResultField(field string) error {
	switch field {
	case constants.FieldProfit, constants.FieldSuccess, constants.FieldZ,
		constants.FieldDensity, constants.FieldPledge, constants.FieldMean,
		constants.FieldVariance:
		return nil
	default:
		return fmt.Errorf("unknown result field %q", field)
	}
}
