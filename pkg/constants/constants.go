// Package constants provides shared constants for the dac-optimizer application.
package constants

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Rendering defaults
const (
	// DefaultPlotWidthInches is the default width of a rendered image
	DefaultPlotWidthInches = 6.4

	// DefaultPlotHeightInches is the default height of a rendered image
	DefaultPlotHeightInches = 4.8

	// DefaultContourLevels matches the number of filled bands of a contour plot
	DefaultContourLevels = 20

	// DefaultClampRatio bounds the negative display range to -max/ratio
	DefaultClampRatio = 20.0

	// RHSYLimitFactor caps the RHS diagnostic y-axis at factor*max(x)
	RHSYLimitFactor = 4.0
)

// Numerical constants
const (
	// MaxBisectIterations is larger than the number of halvings needed to
	// exhaust every float64 between any two finite bounds.
	MaxBisectIterations = 2200

	// ComparisonTolerance is the default tolerance used by approximate equality
	// checks on probabilities.
	ComparisonTolerance = 1e-9
)

// Result field names accepted by contract plots.
const (
	FieldProfit   = "profit"
	FieldSuccess  = "success"
	FieldZ        = "z"
	FieldDensity  = "pdf"
	FieldPledge   = "vs"
	FieldMean     = "smean"
	FieldVariance = "svar"
)
