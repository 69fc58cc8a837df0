// Package config loads pipeline configuration from a YAML file with
// AURORA_* environment overrides. Every field has a default so an
// absent file still yields a working local setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface.
type Config struct {
	// ApprovalThreshold is the Reviewer's confidence gate. (0,1].
	ApprovalThreshold float64 `yaml:"approval_threshold"`

	// DecisionThreshold is reserved for the Proposer's rule logic.
	DecisionThreshold float64 `yaml:"decision_threshold"`

	// FallbackModel is the swap target on the catastrophic accuracy
	// branch.
	FallbackModel string `yaml:"fallback_model"`

	Memory  MemoryConfig  `yaml:"memory"`
	Notify  NotifyConfig  `yaml:"notify"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// MemoryConfig selects and tunes the vector backend.
type MemoryConfig struct {
	// Backend is "chromem" (embedded) or "redis" (remote).
	Backend string `yaml:"backend"`

	// RedisURL is the connection string for the redis backend.
	RedisURL string `yaml:"redis_url"`

	// Dimensions is the embedding size, fixed by the encoder.
	Dimensions int `yaml:"dimensions"`
}

// NotifyConfig configures alert delivery.
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// AdvisorConfig configures the optional Claude advisor hook.
type AdvisorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ApprovalThreshold: 0.85,
		DecisionThreshold: 0.70,
		FallbackModel:     "baseline_fallback",
		Memory: MemoryConfig{
			Backend:    "chromem",
			RedisURL:   "redis://localhost:6379",
			Dimensions: 384,
		},
	}
}

// Load reads the YAML file at path, overlays environment variables,
// and validates. An empty path or missing file falls back to
// defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks threshold ranges and backend selection.
func (c Config) Validate() error {
	if c.ApprovalThreshold <= 0 || c.ApprovalThreshold > 1 {
		return fmt.Errorf("approval_threshold must be in (0,1], got %v", c.ApprovalThreshold)
	}
	if c.DecisionThreshold <= 0 || c.DecisionThreshold > 1 {
		return fmt.Errorf("decision_threshold must be in (0,1], got %v", c.DecisionThreshold)
	}
	switch c.Memory.Backend {
	case "chromem", "redis":
	default:
		return fmt.Errorf("unknown memory backend %q", c.Memory.Backend)
	}
	if c.Memory.Dimensions <= 0 {
		return fmt.Errorf("memory dimensions must be positive, got %d", c.Memory.Dimensions)
	}
	return nil
}

// applyEnv overlays AURORA_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AURORA_APPROVAL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ApprovalThreshold = f
		}
	}
	if v := os.Getenv("AURORA_DECISION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DecisionThreshold = f
		}
	}
	if v := os.Getenv("AURORA_FALLBACK_MODEL"); v != "" {
		cfg.FallbackModel = v
	}
	if v := os.Getenv("AURORA_MEMORY_BACKEND"); v != "" {
		cfg.Memory.Backend = v
	}
	if v := os.Getenv("AURORA_REDIS_URL"); v != "" {
		cfg.Memory.RedisURL = v
	}
	if v := os.Getenv("AURORA_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("AURORA_ADVISOR_MODEL"); v != "" {
		cfg.Advisor.Model = v
		cfg.Advisor.Enabled = true
	}
}
