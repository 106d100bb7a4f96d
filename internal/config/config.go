// Package config defines the data structures related to configuration and
// includes functions for loading and parsing a deal file.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/datetime"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected for dates in deal files.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds a deal file: the deal, the refinancing scenario and the
// optional break-even directives.
type Configuration struct {
	Logging   LoggingConfig          `yaml:"logging,omitempty"`
	Output    OutputConfig           `yaml:"output,omitempty"`
	Deal      analysis.DealInput     `yaml:"deal"`
	Scenario  analysis.ScenarioInput `yaml:"scenario"`
	Optimizer []OptimizerConfig      `yaml:"optimizer,omitempty"`
	AsOf      string                 `yaml:"asOf,omitempty"` // YYYY-MM for the current debt report, defaults to now
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, xlsx
	File   string `yaml:"file,omitempty"`   // target file for xlsx output
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix("DEAL_ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	for i := range configuration.Optimizer {
		configuration.Optimizer[i].Normalize()
	}

	return &configuration, nil
}

// AsOfTime returns the date the current debt report is evaluated at. An
// empty asOf falls back to now.
func (c *Configuration) AsOfTime(now time.Time) (time.Time, error) {
	if strings.TrimSpace(c.AsOf) == "" {
		return now, nil
	}
	asOf, err := datetime.ParseMonth(c.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("asOf: %w", err)
	}
	return asOf, nil
}
