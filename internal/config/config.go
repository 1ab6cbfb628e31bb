// Package config loads the nnlower configuration.
//
// Values come from an optional YAML file and are then overridden by NNLOWER_*
// environment variables:
//
//	target: ascend        # NNLOWER_TARGET
//	hardswish: clip       # NNLOWER_HARDSWISH
//	fuse_code: false      # NNLOWER_FUSE_CODE
//	log_level: 3          # NNLOWER_LOG_LEVEL
//	format: yaml          # NNLOWER_FORMAT
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/born-ml/nnlower/internal/lower"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "NNLOWER"

// Output formats of the lower command.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// MaxLogLevel is the most verbose log level.
const MaxLogLevel = 5

// Config holds the lowering and CLI settings.
type Config struct {
	// Target names the deployment profile (nnadapter, ascend).
	Target string `yaml:"target" envconfig:"TARGET"`
	// HardSwish overrides the profile's decomposition strategy (relu6, clip).
	HardSwish string `yaml:"hardswish" envconfig:"HARDSWISH"`
	// FuseCode overrides whether binary operators get a fuse-code operand.
	FuseCode *bool `yaml:"fuse_code" envconfig:"FUSE_CODE"`
	// LogLevel is the logr verbosity; 3 logs each converted operator.
	LogLevel int `yaml:"log_level" envconfig:"LOG_LEVEL"`
	// Format selects the dump format of the lower command.
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Target: lower.ProfileNNAdapter.Name,
		Format: FormatText,
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec // path is provided by user
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults without environment overrides.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := lower.LookupProfile(c.Target); err != nil {
		return errors.WithMessage(err, "invalid config")
	}
	if c.HardSwish != "" {
		if _, err := lower.ParseStrategy(c.HardSwish); err != nil {
			return errors.WithMessage(err, "invalid config")
		}
	}
	switch c.Format {
	case FormatText, FormatYAML:
	default:
		return errors.Errorf("invalid config: unknown format %q (want %s or %s)", c.Format, FormatText, FormatYAML)
	}
	if c.LogLevel < 0 || c.LogLevel > MaxLogLevel {
		return errors.Errorf("invalid config: log level %d out of range 0..%d", c.LogLevel, MaxLogLevel)
	}
	return nil
}

// Profile returns the target profile with the configured overrides applied.
func (c *Config) Profile() (lower.Profile, error) {
	p, err := lower.LookupProfile(c.Target)
	if err != nil {
		return lower.Profile{}, err
	}
	if c.HardSwish != "" {
		if p.Strategy, err = lower.ParseStrategy(c.HardSwish); err != nil {
			return lower.Profile{}, err
		}
	}
	if c.FuseCode != nil {
		p.FuseCode = *c.FuseCode
	}
	return p, nil
}
