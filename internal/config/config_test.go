package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5.0, cfg.Monitor.ThresholdPX)
	assert.Equal(t, 150, cfg.Monitor.DebounceMS)
	assert.Equal(t, 10.0, cfg.Monitor.GrowthBufferPX)
	assert.Equal(t, []int{100, 300, 500}, cfg.Monitor.RecheckDelaysMS)
	assert.True(t, cfg.Monitor.FullScan)
	assert.Equal(t, 50.0, cfg.Monitor.MinHeight)
	assert.Equal(t, 4, cfg.Sandbox.PoolSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MATHVIEW_HEIGHT_THRESHOLD", "8")
	t.Setenv("MATHVIEW_RECHECK_DELAYS", "50,250")
	t.Setenv("MATHVIEW_FULL_SCAN", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.Monitor.ThresholdPX)
	assert.Equal(t, []int{50, 250}, cfg.Monitor.RecheckDelaysMS)
	assert.False(t, cfg.Monitor.FullScan)

	// Untouched fields keep their defaults.
	assert.Equal(t, 150, cfg.Monitor.DebounceMS)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("MATHVIEW_DEBOUNCE_MS", "not-a-number")

	cfg := LoadOrDefault()
	assert.Equal(t, 150, cfg.Monitor.DebounceMS)
}
