// Package config loads bindinfo settings from a YAML file, a .env file and
// BINDINFO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
	"github.com/Sumatoshi-tech/bindinfo/pkg/preprocess"
)

// Sentinel validation errors.
var (
	ErrEmptySentinelSuffix = errors.New("model.sentinel_suffix must not be empty")
	ErrEmptyOutputMarker   = errors.New("model.output_marker must not be empty")
	ErrInvalidLogLevel     = errors.New("invalid logging.level")
	ErrInvalidSampleRatio  = errors.New("telemetry.sample_ratio must be within [0, 1]")
)

const (
	envPrefix      = "BINDINFO"
	configName     = ".bindinfo"
	configType     = "yaml"
	defaultLevel   = "info"
	maxSampleRatio = 1.0
)

// Config holds all bindinfo settings.
type Config struct {
	Input        InputConfig        `mapstructure:"input"`
	Preprocessor PreprocessorConfig `mapstructure:"preprocessor"`
	Model        ModelConfig        `mapstructure:"model"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// InputConfig names the header and metadata files.
type InputConfig struct {
	Header           string `mapstructure:"header"`
	Metadata         string `mapstructure:"metadata"`
	ValidateMetadata bool   `mapstructure:"validate_metadata"`
}

// PreprocessorConfig describes the external preprocessor invocation.
type PreprocessorConfig struct {
	Command     string   `mapstructure:"command"`
	Args        []string `mapstructure:"args"`
	IncludeDirs []string `mapstructure:"include_dirs"`
	Defines     []string `mapstructure:"defines"`
}

// ModelConfig holds the naming conventions applied while building the model.
type ModelConfig struct {
	SentinelSuffix string `mapstructure:"sentinel_suffix"`
	OutputMarker   string `mapstructure:"output_marker"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	// PrometheusAddr is the listen address of the /metrics endpoint served
	// by "bindinfo mcp". Empty disables it.
	PrometheusAddr string `mapstructure:"prometheus_addr"`
}

// LoadConfig reads configuration. An empty configPath searches the working
// directory for .bindinfo.yaml and tolerates its absence; an explicit path
// must exist. Variables from ./.env are loaded first and never override the
// process environment.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	viperCfg := viper.New()
	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType(configType)
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.header", "")
	viperCfg.SetDefault("input.metadata", "")
	viperCfg.SetDefault("input.validate_metadata", true)

	viperCfg.SetDefault("preprocessor.command", "")
	viperCfg.SetDefault("preprocessor.args", []string{})
	viperCfg.SetDefault("preprocessor.include_dirs", []string{})
	viperCfg.SetDefault("preprocessor.defines", []string{})

	viperCfg.SetDefault("model.sentinel_suffix", apimodel.DefaultSentinelSuffix)
	viperCfg.SetDefault("model.output_marker", apimodel.DefaultOutputMarker)

	viperCfg.SetDefault("logging.level", defaultLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.prometheus_addr", "")
}

// Validate checks the settings that have no usable zero value.
func (c *Config) Validate() error {
	if c.Model.SentinelSuffix == "" {
		return ErrEmptySentinelSuffix
	}

	if c.Model.OutputMarker == "" {
		return ErrEmptyOutputMarker
	}

	if _, err := observability.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > maxSampleRatio {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// ModelOptions returns the options for apimodel.Build.
func (c *Config) ModelOptions() apimodel.Options {
	return apimodel.Options{
		SentinelSuffix: c.Model.SentinelSuffix,
		OutputMarker:   c.Model.OutputMarker,
	}
}

// Runner returns the configured preprocessor. Empty args select the
// platform default flags.
func (c *Config) Runner() *preprocess.Runner {
	runner := &preprocess.Runner{
		Command:     c.Preprocessor.Command,
		IncludeDirs: c.Preprocessor.IncludeDirs,
		Defines:     c.Preprocessor.Defines,
	}

	if len(c.Preprocessor.Args) > 0 {
		runner.Args = c.Preprocessor.Args
	}

	return runner
}

// Observability returns the telemetry and logging settings for version.
func (c *Config) Observability(version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.SampleRatio = c.Telemetry.SampleRatio
	cfg.LogJSON = c.Logging.JSON

	if level, err := observability.ParseLevel(c.Logging.Level); err == nil {
		cfg.LogLevel = level
	}

	return cfg
}
