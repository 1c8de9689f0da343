package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/dac-optimizer/internal/analysis"
	"github.com/iwvelando/dac-optimizer/internal/config"
	"github.com/iwvelando/dac-optimizer/internal/contract"
	"github.com/iwvelando/dac-optimizer/internal/dac"
	"github.com/iwvelando/dac-optimizer/internal/model"
	"github.com/iwvelando/dac-optimizer/internal/render"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/output"
	"github.com/iwvelando/dac-optimizer/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configLocation   string
	outputFormatFlag string
	logLevel         string
	workers          int

	point     model.Parameters
	threshold int
)

var rootCmd = &cobra.Command{
	Use:   "dac-optimizer",
	Short: "Sweep and plot profit-optimising assurance contract parameters",
	Long: `Evaluates the penalty-contract and dominant-assurance-contract models over
the parameter grids listed in the configuration file, reports the maximising
point of each grid and renders it as an image.`,
	SilenceUsage: true,
	RunE:         runSweeps,
}

var solveCmd = &cobra.Command{
	Use:          "solve",
	Short:        "Solve the penalty-contract model at a single parameter point",
	SilenceUsage: true,
	RunE:         runSolve,
}

var dacCmd = &cobra.Command{
	Use:          "dac",
	Short:        "Evaluate the dominant-assurance-contract profit at a single point",
	Long:         `Evaluates the DAC profit at threshold --k, or at the rounded expected pledge count when --k is negative.`,
	SilenceUsage: true,
	RunE:         runDAC,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&workers, "workers", -1, "grid rows evaluated concurrently (overrides config when >= 0)")

	for _, cmd := range []*cobra.Command{solveCmd, dacCmd} {
		cmd.Flags().Float64Var(&point.Lambda, "lambda", 0.01, "arrival rate")
		cmd.Flags().IntVar(&point.N, "n", 100, "number of participants")
		cmd.Flags().Float64Var(&point.Cost, "cost", 50, "cost c")
	}
	solveCmd.Flags().Float64Var(&point.Target, "target", 50, "target t")
	solveCmd.Flags().Float64Var(&point.Penalty, "penalty", 0.2, "penalty fraction f")
	dacCmd.Flags().Float64Var(&point.Value, "value", 10, "pledge value v")
	dacCmd.Flags().IntVar(&threshold, "k", -1, "pledge threshold")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(dacCmd)
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// resolveOutputFormat applies the CLI override and the pretty default.
func resolveOutputFormat(configured, override string) (string, error) {
	format := configured
	if override != "" {
		format = override
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func runSweeps(cmd *cobra.Command, _ []string) error {
	conf, err := config.LoadConfiguration(configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", configLocation, err)
		return err
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := resolveOutputFormat(conf.Output.Format, outputFormatFlag)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if workers >= 0 {
		conf.Sweep.Workers = workers
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range conf.Warnings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	printer, err := output.NewPrinter(cmd.OutOrStdout(), outputFormat)
	if err != nil {
		logger.Fatal("failed to create printer",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	renderer := render.NewPlotRenderer(conf.Render.Width, conf.Render.Height)

	runner, err := analysis.NewRunner(logger, conf, renderer, printer)
	if err != nil {
		logger.Fatal("failed to create runner",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	summaries, err := runner.Run(context.Background())
	if err != nil {
		msg := "failed to run sweeps"
		if errors.Is(err, validation.ErrDomain) {
			msg = "invalid model parameters"
		}
		logger.Fatal(msg,
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("all plots rendered",
		zap.String("op", "main"),
		zap.Int("plots", len(summaries)),
	)
	return nil
}

func runSolve(cmd *cobra.Command, _ []string) error {
	printer, err := pointPrinter(cmd)
	if err != nil {
		return err
	}
	res, err := contract.Solve(point)
	if err != nil {
		return fmt.Errorf("solve %s: %w", point, err)
	}
	printer.Solve(res)
	return nil
}

func runDAC(cmd *cobra.Command, _ []string) error {
	printer, err := pointPrinter(cmd)
	if err != nil {
		return err
	}
	k := threshold
	if k < 0 {
		k = dac.OptimalThreshold(point.Lambda, point.N, point.Value)
	}
	out, err := dac.Evaluate(point, k, point.Value)
	if err != nil {
		return fmt.Errorf("dac %s: %w", point, err)
	}
	printer.DAC(k, out)
	return nil
}

func pointPrinter(cmd *cobra.Command) (*output.Printer, error) {
	if outputFormatFlag != "" && outputFormatFlag != constants.OutputFormatPretty {
		return nil, fmt.Errorf("single-point commands only support %s output", constants.OutputFormatPretty)
	}
	return output.NewPrinter(cmd.OutOrStdout(), constants.OutputFormatPretty)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
