package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all library configuration.
type Config struct {
	Monitor MonitorConfig
	Sandbox SandboxConfig
	Assets  AssetConfig
	Ingest  IngestConfig
	Logging LogConfig
}

// MonitorConfig tunes the height monitor injected into the content view.
type MonitorConfig struct {
	// ThresholdPX is the minimum height delta that triggers a notification.
	ThresholdPX float64 `envconfig:"MATHVIEW_HEIGHT_THRESHOLD" default:"5"`
	// DebounceMS collapses bursts of measurement triggers into one evaluation.
	DebounceMS int `envconfig:"MATHVIEW_DEBOUNCE_MS" default:"150"`
	// GrowthBufferPX is added to the first measurement of a fresh load to
	// absorb late typesetting phases.
	GrowthBufferPX float64 `envconfig:"MATHVIEW_GROWTH_BUFFER" default:"10"`
	// RecheckDelaysMS schedules extra measurements after load; the typesetting
	// engine renders in phases with no completion signal.
	RecheckDelaysMS []int `envconfig:"MATHVIEW_RECHECK_DELAYS" default:"100,300,500"`
	// FullScan enables the per-node max-bottom sweep that catches
	// absolutely positioned content the root measurements miss.
	FullScan bool `envconfig:"MATHVIEW_FULL_SCAN" default:"true"`
	// MinHeight is the default floor for the displayed container height.
	MinHeight float64 `envconfig:"MATHVIEW_MIN_HEIGHT" default:"50"`
}

// SandboxConfig tunes the embedded script runtime.
type SandboxConfig struct {
	Timeout  time.Duration `envconfig:"MATHVIEW_SANDBOX_TIMEOUT" default:"5s"`
	PoolSize int           `envconfig:"MATHVIEW_SANDBOX_POOL" default:"4"`
}

// AssetConfig locates the typesetting engine's stylesheet and scripts.
type AssetConfig struct {
	KatexBase string        `envconfig:"MATHVIEW_KATEX_BASE" default:"https://cdn.jsdelivr.net/npm/katex@0.16.11/dist"`
	Timeout   time.Duration `envconfig:"MATHVIEW_ASSET_TIMEOUT" default:"10s"`
}

// IngestConfig tunes the WebSocket height-notification endpoint.
type IngestConfig struct {
	MessagesPerSecond int `envconfig:"MATHVIEW_INGEST_RPS" default:"20"`
	Burst             int `envconfig:"MATHVIEW_INGEST_BURST" default:"40"`
	MaxMessageBytes   int `envconfig:"MATHVIEW_INGEST_MAX_BYTES" default:"1024"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"MATHVIEW_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"MATHVIEW_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Monitor: MonitorConfig{
			ThresholdPX:     5,
			DebounceMS:      150,
			GrowthBufferPX:  10,
			RecheckDelaysMS: []int{100, 300, 500},
			FullScan:        true,
			MinHeight:       50,
		},
		Sandbox: SandboxConfig{
			Timeout:  5 * time.Second,
			PoolSize: 4,
		},
		Assets: AssetConfig{
			KatexBase: "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist",
			Timeout:   10 * time.Second,
		},
		Ingest: IngestConfig{
			MessagesPerSecond: 20,
			Burst:             40,
			MaxMessageBytes:   1024,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
