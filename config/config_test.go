package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docclass.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("unexpected port: got %q, want %q", cfg.Server.Port, "8000")
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  read_timeout: 3s
features:
  stem: true
weighting:
  weight: 2.5
logging:
  format: json
sample: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port: got %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Fatalf("unexpected read timeout: got %s, want %s", cfg.Server.ReadTimeout, 3*time.Second)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Fatalf("expected default write timeout, got %s", cfg.Server.WriteTimeout)
	}
	if !cfg.Features.Stem || cfg.Features.MinLength != 3 || cfg.Features.Language != "english" {
		t.Fatalf("unexpected features section: %+v", cfg.Features)
	}
	if w := cfg.ClassifierWeighting(); w.Weight != 2.5 || w.AssumedProb != 0.5 {
		t.Fatalf("unexpected weighting: %+v", w)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
	if !cfg.Sample {
		t.Fatal("expected sample training to be enabled")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Server.Port = "http" }},
		{name: "timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }},
		{name: "body size", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{name: "feature bounds", mutate: func(c *Config) { c.Features.MaxLength = 1 }},
		{name: "stem language", mutate: func(c *Config) { c.Features.Stem = true; c.Features.Language = "elvish" }},
		{name: "weight", mutate: func(c *Config) { c.Weighting.Weight = 0 }},
		{name: "infinite weight", mutate: func(c *Config) { c.Weighting.Weight = math.Inf(1) }},
		{name: "assumed prob", mutate: func(c *Config) { c.Weighting.AssumedProb = 2 }},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigRejectsInfiniteWeight(t *testing.T) {
	path := writeConfig(t, "weighting:\n  weight: .inf\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for infinite weight")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = "7000"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	loaded, err := LoadConfig(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
