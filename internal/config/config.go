// Package config defines the data structures related to configuration and
// includes functions for loading, normalising and validating it.
package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/iwvelando/dac-optimizer/internal/model"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"github.com/iwvelando/dac-optimizer/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for dac-optimizer.
type Configuration struct {
	Logging       LoggingConfig  `mapstructure:"logging"`
	Output        OutputConfig   `mapstructure:"output"`
	Render        RenderConfig   `mapstructure:"render"`
	Sweep         SweepConfig    `mapstructure:"sweep"`
	ContractPlots []ContractPlot `mapstructure:"contractPlots"`
	DACPlots      []DACPlot      `mapstructure:"dacPlots"`
	OptDACPlots   []OptDACPlot   `mapstructure:"optDacPlots"`
	RHSPlots      []RHSPlot      `mapstructure:"rhsPlots"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds report and image output options
type OutputConfig struct {
	Format    string `mapstructure:"format"`    // pretty, csv
	Directory string `mapstructure:"directory"` // prefix for relative image paths
}

// RenderConfig holds image options.
type RenderConfig struct {
	Width      float64 `mapstructure:"width"`  // inches
	Height     float64 `mapstructure:"height"` // inches
	Levels     int     `mapstructure:"levels"`
	ClampRatio float64 `mapstructure:"clampRatio"`
}

// SweepConfig holds grid evaluation options.
type SweepConfig struct {
	Workers int `mapstructure:"workers"`
}

// Range is the half-open interval [Start, Stop) sampled every Step.
type Range struct {
	Start float64 `mapstructure:"start"`
	Stop  float64 `mapstructure:"stop"`
	Step  float64 `mapstructure:"step"`
}

// ContractPlot sweeps the penalty-contract model over target (x) and penalty
// fraction (y) and plots one result field.
type ContractPlot struct {
	Name    string  `mapstructure:"name"`
	Lambda  float64 `mapstructure:"lambda"`
	N       int     `mapstructure:"n"`
	Cost    float64 `mapstructure:"cost"`
	Field   string  `mapstructure:"field"`
	Title   string  `mapstructure:"title"`
	Target  Range   `mapstructure:"target"`
	Penalty Range   `mapstructure:"penalty"`
	File    string  `mapstructure:"file"`
}

// DACPlot sweeps the DAC profit over threshold K (x) and pledge value V* (y).
type DACPlot struct {
	Name   string  `mapstructure:"name"`
	Lambda float64 `mapstructure:"lambda"`
	N      int     `mapstructure:"n"`
	Cost   float64 `mapstructure:"cost"`
	K      Range   `mapstructure:"k"`
	Value  Range   `mapstructure:"value"`
	File   string  `mapstructure:"file"`
}

// OptDACPlot plots the optimised DAC profit against the pledge value.
type OptDACPlot struct {
	Name   string  `mapstructure:"name"`
	Lambda float64 `mapstructure:"lambda"`
	N      int     `mapstructure:"n"`
	Cost   float64 `mapstructure:"cost"`
	Value  Range   `mapstructure:"value"`
	File   string  `mapstructure:"file"`
}

// RHSPlot plots the fixed-point right-hand side against the identity.
type RHSPlot struct {
	Name    string  `mapstructure:"name"`
	Lambda  float64 `mapstructure:"lambda"`
	N       int     `mapstructure:"n"`
	Target  float64 `mapstructure:"target"`
	Penalty float64 `mapstructure:"penalty"`
	X       Range   `mapstructure:"x"`
	File    string  `mapstructure:"file"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix("DAC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Normalize()

	return &configuration, nil
}

// Normalize applies defaults to unset fields.
func (c *Configuration) Normalize() {
	if c.Render.Width <= 0 {
		c.Render.Width = constants.DefaultPlotWidthInches
	}
	if c.Render.Height <= 0 {
		c.Render.Height = constants.DefaultPlotHeightInches
	}
	if c.Render.Levels <= 0 {
		c.Render.Levels = constants.DefaultContourLevels
	}
	if c.Render.ClampRatio == 0 {
		c.Render.ClampRatio = constants.DefaultClampRatio
	}
	for i := range c.ContractPlots {
		c.ContractPlots[i].Field = strings.ToLower(strings.TrimSpace(c.ContractPlots[i].Field))
		if c.ContractPlots[i].Field == "" {
			c.ContractPlots[i].Field = constants.FieldProfit
		}
	}
}

// Validate returns an error for the first invalid plot definition.
func (c *Configuration) Validate() error {
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep workers must not be negative, got %d", c.Sweep.Workers)
	}
	for _, p := range c.ContractPlots {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("contract plot %s: %w", p.Name, err)
		}
	}
	for _, p := range c.DACPlots {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("dac plot %s: %w", p.Name, err)
		}
	}
	for _, p := range c.OptDACPlots {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("optimal dac plot %s: %w", p.Name, err)
		}
	}
	for _, p := range c.RHSPlots {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("rhs plot %s: %w", p.Name, err)
		}
	}
	return nil
}

// Warnings reports configuration that is valid but probably unintended.
func (c *Configuration) Warnings() []string {
	var warnings []string
	if c.PlotCount() == 0 {
		warnings = append(warnings, "no plots are configured")
	}
	seen := make(map[string]string)
	for _, file := range c.outputFiles() {
		path := c.OutputPath(file)
		if prev, ok := seen[path]; ok {
			warnings = append(warnings, fmt.Sprintf("plots %s and %s both write %s", prev, file, path))
			continue
		}
		seen[path] = file
	}
	if c.Render.ClampRatio < 0 {
		warnings = append(warnings, "negative clampRatio disables display clamping")
	}
	return warnings
}

// PlotCount returns the number of configured plots.
func (c *Configuration) PlotCount() int {
	return len(c.ContractPlots) + len(c.DACPlots) + len(c.OptDACPlots) + len(c.RHSPlots)
}

// OutputPath resolves a plot file against the output directory.
func (c *Configuration) OutputPath(file string) string {
	if c.Output.Directory == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.Output.Directory, file)
}

func (c *Configuration) outputFiles() []string {
	var files []string
	for _, p := range c.ContractPlots {
		files = append(files, p.File)
	}
	for _, p := range c.DACPlots {
		files = append(files, p.File)
	}
	for _, p := range c.OptDACPlots {
		files = append(files, p.File)
	}
	for _, p := range c.RHSPlots {
		files = append(files, p.File)
	}
	return files
}

// Values materialises the range. The count is computed up front so the
// sample points do not accumulate rounding error.
func (r Range) Values() ([]float64, error) {
	if r.Step <= 0 || math.IsNaN(r.Step) {
		return nil, fmt.Errorf("range step must be positive, got %v", r.Step)
	}
	if !(r.Stop > r.Start) {
		return nil, fmt.Errorf("range stop %v must be greater than start %v", r.Stop, r.Start)
	}
	count := int(math.Ceil((r.Stop - r.Start) / r.Step))
	values := make([]float64, count)
	for i := range values {
		values[i] = r.Start + float64(i)*r.Step
	}
	return values, nil
}

// Parameters returns the model parameters shared by every cell of the plot.
func (p ContractPlot) Parameters() model.Parameters {
	return model.Parameters{Lambda: p.Lambda, N: p.N, Cost: p.Cost}
}

// Validate checks the plot definition.
func (p ContractPlot) Validate() error {
	if err := validation.ValidateResultField(p.Field); err != nil {
		return err
	}
	if err := requireFile(p.File); err != nil {
		return err
	}
	if _, err := p.Target.Values(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if _, err := p.Penalty.Values(); err != nil {
		return fmt.Errorf("penalty: %w", err)
	}
	return nil
}

// Parameters returns the model parameters shared by every cell of the plot.
func (p DACPlot) Parameters() model.Parameters {
	return model.Parameters{Lambda: p.Lambda, N: p.N, Cost: p.Cost}
}

// Validate checks the plot definition.
func (p DACPlot) Validate() error {
	if err := requireFile(p.File); err != nil {
		return err
	}
	if _, err := p.K.Values(); err != nil {
		return fmt.Errorf("k: %w", err)
	}
	if _, err := p.Value.Values(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	return nil
}

// Parameters returns the model parameters shared by every point of the plot.
func (p OptDACPlot) Parameters() model.Parameters {
	return model.Parameters{Lambda: p.Lambda, N: p.N, Cost: p.Cost}
}

// Validate checks the plot definition.
func (p OptDACPlot) Validate() error {
	if err := requireFile(p.File); err != nil {
		return err
	}
	if _, err := p.Value.Values(); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	return nil
}

// Parameters returns the model parameters shared by every point of the plot.
func (p RHSPlot) Parameters() model.Parameters {
	return model.Parameters{Lambda: p.Lambda, N: p.N, Target: p.Target, Penalty: p.Penalty}
}

// Validate checks the plot definition.
func (p RHSPlot) Validate() error {
	if err := requireFile(p.File); err != nil {
		return err
	}
	if _, err := p.X.Values(); err != nil {
		return fmt.Errorf("x: %w", err)
	}
	return nil
}

func requireFile(file string) error {
	if strings.TrimSpace(file) == "" {
		return fmt.Errorf("output file is required")
	}
	return nil
}
