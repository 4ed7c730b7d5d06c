package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hickeroar/docclass/classifier"
	"github.com/hickeroar/docclass/features"
)

// Config represents docclass configuration
type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Feature extraction settings
	Features FeaturesConfig `yaml:"features"`

	// Smoothing applied by weighted probability lookups
	Weighting WeightingConfig `yaml:"weighting"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Train the built-in sample documents at startup
	Sample bool `yaml:"sample"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port              string        `yaml:"port"`
	AuthToken         string        `yaml:"auth_token"` // empty disables authorization
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
}

// FeaturesConfig contains feature extractor settings
type FeaturesConfig struct {
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`
	Fold      bool   `yaml:"fold"`
	Stem      bool   `yaml:"stem"`
	Language  string `yaml:"language"`
}

// WeightingConfig contains the prior blended into weighted probabilities
type WeightingConfig struct {
	Weight      float64 `yaml:"weight"`
	AssumedProb float64 `yaml:"assumed_prob"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

var (
	errInvalidPort     = errors.New("invalid server port")
	errInvalidTimeout  = errors.New("server timeouts must be positive")
	errInvalidBodySize = errors.New("max body bytes must be positive")
	errInvalidLevel    = errors.New("invalid logging level")
	errInvalidFormat   = errors.New("invalid logging format")
)

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "8000",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxBodyBytes:      1 << 20, // 1 MiB
		},
		Features: FeaturesConfig{
			MinLength: features.MinLength,
			MaxLength: features.MaxLength,
			Language:  features.DefaultLanguage,
		},
		Weighting: WeightingConfig{
			Weight:      classifier.DefaultWeighting.Weight,
			AssumedProb: classifier.DefaultWeighting.AssumedProb,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads path over the defaults and validates the result.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks every section for values the service cannot run with
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Server.Port)
	}

	for _, d := range []time.Duration{
		c.Server.ReadHeaderTimeout,
		c.Server.ReadTimeout,
		c.Server.WriteTimeout,
		c.Server.IdleTimeout,
		c.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s", errInvalidTimeout, d)
		}
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: %d", errInvalidBodySize, c.Server.MaxBodyBytes)
	}

	if _, err := features.New(c.FeatureOptions()); err != nil {
		return err
	}

	if err := c.ClassifierWeighting().Validate(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidFormat, c.Logging.Format)
	}

	return nil
}

// FeatureOptions converts the features section into extractor options
func (c *Config) FeatureOptions() features.Options {
	return features.Options{
		MinLength: c.Features.MinLength,
		MaxLength: c.Features.MaxLength,
		Fold:      c.Features.Fold,
		Stem:      c.Features.Stem,
		Language:  c.Features.Language,
	}
}

// ClassifierWeighting converts the weighting section
func (c *Config) ClassifierWeighting() classifier.Weighting {
	return classifier.Weighting{
		Weight:      c.Weighting.Weight,
		AssumedProb: c.Weighting.AssumedProb,
	}
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
