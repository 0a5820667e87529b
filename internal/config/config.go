// Package config provides Viper-based configuration loading for the arena.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GameConfig holds game loop settings.
type GameConfig struct {
	// Seed for random number generation. A seed of 0 means a random seed.
	Seed int64 `mapstructure:"seed"`
	// FPS is the number of frames the game loop advances per second.
	FPS int `mapstructure:"fps"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log file path. The terminal is reserved for the game screen.
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds OpenTelemetry exporter settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint URL. Empty defers to OTEL_* env vars.
	Endpoint string `mapstructure:"endpoint"`
	// APIKey is sent as the x-honeycomb-team header when set.
	APIKey string `mapstructure:"api_key"`
	// Dataset is sent as the x-honeycomb-dataset header.
	Dataset string `mapstructure:"dataset"`
}

// Headers returns the exporter headers derived from the API key and dataset.
func (t TelemetryConfig) Headers() map[string]string {
	if t.APIKey == "" {
		return nil
	}
	headers := map[string]string{"x-honeycomb-team": t.APIKey}
	if t.Dataset != "" {
		headers["x-honeycomb-dataset"] = t.Dataset
	}
	return headers
}

// Config is the top-level application configuration.
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// Validate checks all configuration invariants.
func (c Config) Validate() error {
	var errs []string

	if c.Game.FPS < 1 || c.Game.FPS > 240 {
		errs = append(errs, fmt.Sprintf("game.fps must be 1-240, got %d", c.Game.FPS))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint != "" &&
		!strings.HasPrefix(c.Telemetry.Endpoint, "http://") && !strings.HasPrefix(c.Telemetry.Endpoint, "https://") {
		errs = append(errs, fmt.Sprintf("telemetry.endpoint must be an http(s) URL, got %q", c.Telemetry.Endpoint))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file
// and uses defaults plus the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.fps", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "arena.log")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.api_key", "")
	v.SetDefault("telemetry.dataset", "battlearena")
}
