// Package config resolves the runner configuration from its three layers:
// built-in defaults, an optional YAML file, and PRYSK_* environment
// variables. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const namespace = "PRYSK"

// DefaultFile is the config file consulted when none is named.
const DefaultFile = "prysk.yaml"

// Config is the full configuration surface. The struct tags carry no
// envconfig defaults on purpose: defaults come from Default(), the YAML
// file is laid over them, and envconfig then only touches fields whose
// PRYSK_* variable is actually set, which keeps the documented precedence
// order honest. Variable names derive from the field names (PRYSK_SHELL,
// PRYSK_CLEAN_ENV, ...); unprefixed variables such as SHELL are ignored.
type Config struct {
	Shell      string `split_words:"true" yaml:"shell"`
	Indent     int    `split_words:"true" yaml:"indent"`
	CleanEnv   bool   `split_words:"true" yaml:"cleanEnv"`
	KeepTmpdir bool   `split_words:"true" yaml:"keepTmpdir"`
	Color      string `split_words:"true" yaml:"color"`
	LogLevel   string `split_words:"true" yaml:"logLevel"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shell:    "/bin/sh",
		Indent:   2,
		CleanEnv: true,
		Color:    "auto",
		LogLevel: "warn",
	}
}

// Load resolves the configuration. file may be empty, in which case
// DefaultFile is used if it exists; a file named explicitly must exist.
func Load(file string) (*Config, error) {
	cfg := Default()

	explicit := file != ""
	if file == "" {
		file = DefaultFile
	}
	b, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := envconfig.Process(namespace, &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if cfg.Indent <= 0 {
		return nil, fmt.Errorf("indent must be positive, got %d", cfg.Indent)
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level to a slog level, defaulting to
// warn on anything unparsable.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
