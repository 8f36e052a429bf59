package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the tseries command
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Series   SeriesConfig   `mapstructure:"series"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeriesConfig supplies metadata for input documents that do not carry it.
type SeriesConfig struct {
	Name     string `mapstructure:"name"`
	Timezone string `mapstructure:"timezone"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	// File, when set, receives the step metrics in the Prometheus text
	// format after each run.
	File string `mapstructure:"file"`
}

type PipelineConfig struct {
	Steps []StepConfig `mapstructure:"steps"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, expanding $VAR references and applying
// defaults.
func Parse(data []byte) (*Config, error) {
	// First unmarshal into a map to handle type conversions
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
	}

	// Convert the map to YAML again
	data, err := yaml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw config: %w", err)
	}

	// Expand environment variables
	expandedData := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(expandedData)); err != nil {
		return nil, fmt.Errorf("failed to read expanded config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("series.timezone", "Etc/UTC")

	v.SetDefault("metrics.namespace", "tseries")
}
