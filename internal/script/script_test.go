package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaults(t *testing.T) {
	src, err := Render(Default())
	require.NoError(t, err)

	assert.Contains(t, src, "threshold: 5")
	assert.Contains(t, src, "debounce: 150")
	assert.Contains(t, src, "buffer: 10")
	assert.Contains(t, src, "delays: [100, 300, 500]")
	assert.Contains(t, src, "getElementsByTagName('*')")
	assert.Contains(t, src, "window.MathViewBridge.postMessage")
	assert.Contains(t, src, ".katex, .katex-display")
}

func TestRenderWithoutFullScan(t *testing.T) {
	opts := Default()
	opts.FullScan = false

	src, err := Render(opts)
	require.NoError(t, err)

	assert.NotContains(t, src, "getElementsByTagName('*')")
	// The typeset-output strategy stays regardless.
	assert.Contains(t, src, ".katex, .katex-display")
}

func TestRenderCustomSchedule(t *testing.T) {
	opts := Options{
		Threshold:  3.5,
		DebounceMS: 90,
		BufferPX:   8,
		DelaysMS:   []int{50},
		RescanMS:   100,
	}

	src, err := Render(opts)
	require.NoError(t, err)

	assert.Contains(t, src, "threshold: 3.5")
	assert.Contains(t, src, "debounce: 90")
	assert.Contains(t, src, "delays: [50]")
	assert.Contains(t, src, "rescan: 100")
}

func TestRenderFillsZeroTimings(t *testing.T) {
	src, err := Render(Options{Threshold: 5, BufferPX: 10})
	require.NoError(t, err)

	assert.Contains(t, src, "debounce: 150")
	assert.Contains(t, src, "rescan: 250")
	assert.True(t, strings.Contains(src, "delays: []"))
}
