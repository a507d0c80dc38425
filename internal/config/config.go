package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BurnishConfig represents the top-level burnish.yml configuration
type BurnishConfig struct {
	Version string         `yaml:"version"`
	Redis   RedisConfig    `yaml:"redis"`
	Oracles OraclesConfig  `yaml:"oracles"`
	Quality *QualityConfig `yaml:"quality,omitempty"`
	Batch   *BatchConfig   `yaml:"batch,omitempty"`
}

// RedisConfig specifies the pattern store connection
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db,omitempty"`
	Namespace string `yaml:"namespace,omitempty"` // Key prefix; default "burnish"
}

// OraclesConfig specifies the external scoring and generation services
type OraclesConfig struct {
	AuthenticityURL string `yaml:"authenticity_url"`
	RealismURL      string `yaml:"realism_url"`
	ReadabilityURL  string `yaml:"readability_url"`
	SubjectiveURL   string `yaml:"subjective_url"`
	GeneratorURL    string `yaml:"generator_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds,omitempty"` // Per-call timeout, default 30
}

// QualityConfig specifies gate thresholds, composite weights, and the
// per-item retry budget
type QualityConfig struct {
	RealismThreshold   *float64 `yaml:"realism_threshold,omitempty"`   // Inclusive minimum, default 7.0
	AuthenticityWeight *float64 `yaml:"authenticity_weight,omitempty"` // Default 0.6
	RealismWeight      *float64 `yaml:"realism_weight,omitempty"`      // Default 0.4
	MaxAttempts        *int     `yaml:"max_attempts,omitempty"`        // Cycles per item including the first, default 3
}

// BatchConfig specifies batch-mode parallelism
type BatchConfig struct {
	Workers int `yaml:"workers,omitempty"` // Default 4
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted optional fields
func (c *BurnishConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Redis.Namespace == "" {
		c.Redis.Namespace = "burnish"
	}

	if err := c.Oracles.validate(); err != nil {
		return err
	}

	// Apply default quality config if missing
	if c.Quality == nil {
		c.Quality = &QualityConfig{}
	}
	if err := c.Quality.validate(); err != nil {
		return err
	}

	if c.Batch == nil {
		c.Batch = &BatchConfig{}
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be >= 1, got %d", c.Batch.Workers)
	}

	return nil
}

func (o *OraclesConfig) validate() error {
	required := map[string]string{
		"oracles.authenticity_url": o.AuthenticityURL,
		"oracles.realism_url":      o.RealismURL,
		"oracles.readability_url":  o.ReadabilityURL,
		"oracles.subjective_url":   o.SubjectiveURL,
		"oracles.generator_url":    o.GeneratorURL,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got: %s", field, value)
		}
	}

	if o.TimeoutSeconds == 0 {
		o.TimeoutSeconds = 30
	}
	if o.TimeoutSeconds < 1 {
		return fmt.Errorf("oracles.timeout_seconds must be >= 1, got %d", o.TimeoutSeconds)
	}

	return nil
}

func (q *QualityConfig) validate() error {
	if q.RealismThreshold == nil {
		defaultThreshold := 7.0
		q.RealismThreshold = &defaultThreshold
	}
	if *q.RealismThreshold < 0 || *q.RealismThreshold > 10 {
		return fmt.Errorf("quality.realism_threshold must be in [0, 10], got %g", *q.RealismThreshold)
	}

	if q.AuthenticityWeight == nil {
		defaultWeight := 0.6
		q.AuthenticityWeight = &defaultWeight
	}
	if q.RealismWeight == nil {
		defaultWeight := 0.4
		q.RealismWeight = &defaultWeight
	}
	if sum := *q.AuthenticityWeight + *q.RealismWeight; sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("quality weights must sum to 1.0, got %g", sum)
	}

	if q.MaxAttempts == nil {
		defaultAttempts := 3
		q.MaxAttempts = &defaultAttempts
	}
	if *q.MaxAttempts < 1 {
		return fmt.Errorf("quality.max_attempts must be >= 1, got %d", *q.MaxAttempts)
	}

	return nil
}

// Load reads and validates burnish.yml from the specified path
func Load(path string) (*BurnishConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config BurnishConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
