// Package config provides configuration management for the mortality
// signals pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"mortsig/internal/models"
)

// Unknown-cause policies. "other" routes unmapped cause columns to the
// Other category; "reject" fails the run when one is seen.
const (
	UnknownPolicyOther  = "other"
	UnknownPolicyReject = "reject"
)

// Configuration validation errors.
var (
	ErrMissingInputPath         = errors.New("pipeline.input.path is required")
	ErrMissingSnapshotDir       = errors.New("pipeline.snapshot.dir is required")
	ErrInvalidRollingWindow     = errors.New("pipeline.anomaly.rolling_window must be at least 2")
	ErrInvalidThreshold         = errors.New("pipeline.anomaly.zscore_threshold must be positive")
	ErrInvalidTopAnomalies      = errors.New("pipeline.anomaly.top_anomalies must be at least 1")
	ErrNoCauseCategories        = errors.New("pipeline.causes.categories must map at least one cause")
	ErrUnknownCategory          = errors.New("cause category must be one of: NCD, Communicable, Injury, Other")
	ErrInvalidUnknownPolicy     = errors.New("pipeline.causes.unknown_policy must be 'other' or 'reject'")
	ErrInvalidLogLevel          = errors.New("pipeline.logging.level must be one of: debug, info, warn, error")
	ErrMissingAPIBase           = errors.New("enrichment.api_base is required")
	ErrMissingIndicator         = errors.New("enrichment.indicator is required")
	ErrInvalidYearRange         = errors.New("enrichment.start_year must not exceed enrichment.end_year")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// PipelineConfig contains the batch ETL settings.
type PipelineConfig struct {
	Input    InputConfig    `yaml:"input"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Anomaly  AnomalyConfig  `yaml:"anomaly"`
	Causes   CausesConfig   `yaml:"causes"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InputConfig locates the raw wide-format source table.
type InputConfig struct {
	Path string `yaml:"path"`
}

// SnapshotConfig defines where and how output tables are published.
type SnapshotConfig struct {
	Dir      string `yaml:"dir"`
	WriteCSV bool   `yaml:"write_csv"`
}

// AnomalyConfig holds the scoring policy. The window and threshold are
// policy constants with no documented statistical derivation, so they are
// configuration rather than code.
type AnomalyConfig struct {
	RollingWindow   int     `yaml:"rolling_window"`
	ZScoreThreshold float64 `yaml:"zscore_threshold"`
	TopAnomalies    int     `yaml:"top_anomalies"`
}

// CausesConfig is the versioned cause catalog: an explicit mapping from
// cause name to category, plus the policy for columns outside it.
type CausesConfig struct {
	UnknownPolicy string            `yaml:"unknown_policy"`
	Categories    map[string]string `yaml:"categories"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// EnrichmentConfig configures the World Bank population fetch.
type EnrichmentConfig struct {
	APIBase   string      `yaml:"api_base"`
	Indicator string      `yaml:"indicator"`
	StartYear int         `yaml:"start_year"`
	EndYear   int         `yaml:"end_year"`
	Retry     RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior for the enrichment fetcher.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// DefaultCategories returns the standard cause catalog covering the
// Kaggle "Annual Cause of Death Numbers" dataset.
func DefaultCategories() map[string]string {
	return map[string]string{
		"Meningitis":                     models.CategoryCommunicable,
		"Lower respiratory infections":   models.CategoryCommunicable,
		"Intestinal infectious diseases": models.CategoryCommunicable,
		"Tuberculosis":                   models.CategoryCommunicable,
		"Malaria":                        models.CategoryCommunicable,
		"HIV/AIDS":                       models.CategoryCommunicable,
		"Acute hepatitis":                models.CategoryCommunicable,
		"Maternal disorders":             models.CategoryCommunicable,
		"Neonatal disorders":             models.CategoryCommunicable,
		"Nutritional deficiencies":       models.CategoryCommunicable,

		"Cardiovascular diseases":                    models.CategoryNCD,
		"Neoplasms":                                  models.CategoryNCD,
		"Diabetes mellitus":                          models.CategoryNCD,
		"Chronic kidney disease":                     models.CategoryNCD,
		"Chronic respiratory diseases":               models.CategoryNCD,
		"Cirrhosis and other chronic liver diseases": models.CategoryNCD,
		"Digestive diseases":                         models.CategoryNCD,
		"Alzheimer's disease and other dementias":    models.CategoryNCD,
		"Parkinson's disease":                        models.CategoryNCD,
		"Alcohol use disorders":                      models.CategoryNCD,
		"Drug use disorders":                         models.CategoryNCD,

		"Road injuries":                        models.CategoryInjury,
		"Drowning":                             models.CategoryInjury,
		"Fire, heat, and hot substances":       models.CategoryInjury,
		"Interpersonal violence":               models.CategoryInjury,
		"Self-harm":                            models.CategoryInjury,
		"Conflict and terrorism":               models.CategoryInjury,
		"Exposure to forces of nature":         models.CategoryInjury,
		"Environmental heat and cold exposure": models.CategoryInjury,
		"Poisonings":                           models.CategoryInjury,
	}
}

// Default returns a configuration with the reference policy values and
// the standard cause catalog filled in. The input path still has to be
// supplied.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Snapshot: SnapshotConfig{
				Dir:      "data/snapshot",
				WriteCSV: true,
			},
			Anomaly: AnomalyConfig{
				RollingWindow:   5,
				ZScoreThreshold: 1.5,
				TopAnomalies:    1000,
			},
			Causes: CausesConfig{
				UnknownPolicy: UnknownPolicyOther,
				Categories:    DefaultCategories(),
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		},
		Enrichment: EnrichmentConfig{
			APIBase:   "https://api.worldbank.org/v2/country",
			Indicator: "SP.POP.TOTL",
			StartYear: 1990,
			EndYear:   2023,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file, applying defaults for
// omitted policy values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.Input.Path == "" {
		return ErrMissingInputPath
	}

	if c.Pipeline.Snapshot.Dir == "" {
		return ErrMissingSnapshotDir
	}

	if c.Pipeline.Anomaly.RollingWindow < 2 {
		return ErrInvalidRollingWindow
	}

	if c.Pipeline.Anomaly.ZScoreThreshold <= 0 {
		return ErrInvalidThreshold
	}

	if c.Pipeline.Anomaly.TopAnomalies < 1 {
		return ErrInvalidTopAnomalies
	}

	if len(c.Pipeline.Causes.Categories) == 0 {
		return ErrNoCauseCategories
	}

	for cause, category := range c.Pipeline.Causes.Categories {
		if !models.KnownCategory(category) {
			return fmt.Errorf("%w: cause %q maps to %q", ErrUnknownCategory, cause, category)
		}
	}

	switch c.Pipeline.Causes.UnknownPolicy {
	case UnknownPolicyOther, UnknownPolicyReject:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidUnknownPolicy, c.Pipeline.Causes.UnknownPolicy)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Pipeline.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Enrichment.APIBase == "" {
		return ErrMissingAPIBase
	}

	if c.Enrichment.Indicator == "" {
		return ErrMissingIndicator
	}

	if c.Enrichment.StartYear > c.Enrichment.EndYear {
		return ErrInvalidYearRange
	}

	return c.Enrichment.Retry.Validate()
}

// Validate validates the retry policy.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the HTTP timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// Category returns the category label for a cause name, falling back to
// Other for causes outside the configured catalog.
func (cc *CausesConfig) Category(cause string) (category string, known bool) {
	if cat, ok := cc.Categories[cause]; ok {
		return cat, true
	}

	return models.CategoryOther, false
}
