package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "pipeline.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
pipeline:
  input:
    path: "data/raw/deaths.csv"
  snapshot:
    dir: "data/snapshot"
    write_csv: true
  anomaly:
    rolling_window: 5
    zscore_threshold: 1.5
    top_anomalies: 1000
  causes:
    unknown_policy: "other"
    categories:
      Malaria: "Communicable"
      Neoplasms: "NCD"
      Road injuries: "Injury"
  logging:
    level: "info"
enrichment:
  api_base: "https://api.worldbank.org/v2/country"
  indicator: "SP.POP.TOTL"
  start_year: 1990
  end_year: 2023
  retry:
    max_attempts: 3
    initial_delay_ms: 100
    max_delay_ms: 5000
    backoff_multiplier: 2.0
    timeout_sec: 30
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Expected config, got nil")
	}

	if cfg.Pipeline.Input.Path != "data/raw/deaths.csv" {
		t.Errorf("Expected input path 'data/raw/deaths.csv', got '%s'", cfg.Pipeline.Input.Path)
	}

	if cfg.Pipeline.Anomaly.RollingWindow != 5 {
		t.Errorf("Expected rolling window 5, got %d", cfg.Pipeline.Anomaly.RollingWindow)
	}

	if cat, known := cfg.Pipeline.Causes.Category("Malaria"); !known || cat != "Communicable" {
		t.Errorf("Expected Malaria -> Communicable, got %s (known=%v)", cat, known)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/pipeline.yaml"); err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "pipeline: [not: valid")

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	configPath := createTempConfigFile(t, `
pipeline:
  input:
    path: "data/raw/deaths.csv"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pipeline.Anomaly.RollingWindow != 5 {
		t.Errorf("Expected default rolling window 5, got %d", cfg.Pipeline.Anomaly.RollingWindow)
	}

	if cfg.Pipeline.Anomaly.ZScoreThreshold != 1.5 {
		t.Errorf("Expected default threshold 1.5, got %f", cfg.Pipeline.Anomaly.ZScoreThreshold)
	}

	if cfg.Pipeline.Anomaly.TopAnomalies != 1000 {
		t.Errorf("Expected default top anomalies 1000, got %d", cfg.Pipeline.Anomaly.TopAnomalies)
	}

	if cfg.Pipeline.Causes.UnknownPolicy != UnknownPolicyOther {
		t.Errorf("Expected default unknown policy 'other', got '%s'", cfg.Pipeline.Causes.UnknownPolicy)
	}

	if len(cfg.Pipeline.Causes.Categories) == 0 {
		t.Error("Expected default cause catalog to be applied")
	}

	if cfg.Enrichment.Indicator != "SP.POP.TOTL" {
		t.Errorf("Expected default indicator SP.POP.TOTL, got '%s'", cfg.Enrichment.Indicator)
	}
}

func validTestConfig() *Config {
	cfg := Default()
	cfg.Pipeline.Input.Path = "data/raw/deaths.csv"

	return cfg
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing input path",
			mutate:  func(c *Config) { c.Pipeline.Input.Path = "" },
			wantErr: ErrMissingInputPath,
		},
		{
			name:    "missing snapshot dir",
			mutate:  func(c *Config) { c.Pipeline.Snapshot.Dir = "" },
			wantErr: ErrMissingSnapshotDir,
		},
		{
			name:    "window too small",
			mutate:  func(c *Config) { c.Pipeline.Anomaly.RollingWindow = 1 },
			wantErr: ErrInvalidRollingWindow,
		},
		{
			name:    "non-positive threshold",
			mutate:  func(c *Config) { c.Pipeline.Anomaly.ZScoreThreshold = 0 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "top anomalies below 1",
			mutate:  func(c *Config) { c.Pipeline.Anomaly.TopAnomalies = 0 },
			wantErr: ErrInvalidTopAnomalies,
		},
		{
			name:    "empty cause catalog",
			mutate:  func(c *Config) { c.Pipeline.Causes.Categories = nil },
			wantErr: ErrNoCauseCategories,
		},
		{
			name:    "unknown category label",
			mutate:  func(c *Config) { c.Pipeline.Causes.Categories = map[string]string{"Malaria": "Tropical"} },
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "bad unknown policy",
			mutate:  func(c *Config) { c.Pipeline.Causes.UnknownPolicy = "ignore" },
			wantErr: ErrInvalidUnknownPolicy,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Pipeline.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "missing api base",
			mutate:  func(c *Config) { c.Enrichment.APIBase = "" },
			wantErr: ErrMissingAPIBase,
		},
		{
			name:    "inverted year range",
			mutate:  func(c *Config) { c.Enrichment.StartYear, c.Enrichment.EndYear = 2023, 1990 },
			wantErr: ErrInvalidYearRange,
		},
		{
			name:    "retry attempts below 1",
			mutate:  func(c *Config) { c.Enrichment.Retry.MaxAttempts = 0 },
			wantErr: ErrInvalidMaxAttempts,
		},
		{
			name:    "backoff multiplier below 1",
			mutate:  func(c *Config) { c.Enrichment.Retry.BackoffMultiplier = 0.5 },
			wantErr: ErrInvalidBackoffMultiplier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		MaxAttempts:       5,
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
	}

	if got := rp.GetRetryDelay(1); got != 0 {
		t.Errorf("Expected no delay for first attempt, got %v", got)
	}

	if got := rp.GetRetryDelay(2); got != 200*time.Millisecond {
		t.Errorf("Expected 200ms for attempt 2, got %v", got)
	}

	if got := rp.GetRetryDelay(3); got != 400*time.Millisecond {
		t.Errorf("Expected 400ms for attempt 3, got %v", got)
	}

	// Capped at max delay.
	if got := rp.GetRetryDelay(10); got != 1000*time.Millisecond {
		t.Errorf("Expected cap at 1000ms, got %v", got)
	}
}

func TestCausesConfig_Category_Unknown(t *testing.T) {
	cc := CausesConfig{Categories: map[string]string{"Malaria": "Communicable"}}

	cat, known := cc.Category("Dragon attacks")
	if known {
		t.Error("Expected unknown cause to report known=false")
	}

	if cat != "Other" {
		t.Errorf("Expected fallback category Other, got '%s'", cat)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := validTestConfig()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}

	if loaded.Pipeline.Anomaly.ZScoreThreshold != cfg.Pipeline.Anomaly.ZScoreThreshold {
		t.Errorf("Threshold changed across round trip: %f != %f",
			loaded.Pipeline.Anomaly.ZScoreThreshold, cfg.Pipeline.Anomaly.ZScoreThreshold)
	}

	if len(loaded.Pipeline.Causes.Categories) != len(cfg.Pipeline.Causes.Categories) {
		t.Errorf("Catalog size changed across round trip: %d != %d",
			len(loaded.Pipeline.Causes.Categories), len(cfg.Pipeline.Causes.Categories))
	}
}
