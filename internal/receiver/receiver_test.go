package receiver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphcast/mathview/internal/bridge"
	"github.com/glyphcast/mathview/internal/logging"
)

func newRecording(t *testing.T, minHeight float64) (*Receiver, *[]float64) {
	t.Helper()
	var applied []float64
	r := New(minHeight, func(h float64) { applied = append(applied, h) }, logging.NewNop())
	return r, &applied
}

func raw(t *testing.T, m bridge.Message) []byte {
	t.Helper()
	b, err := bridge.Encode(m)
	require.NoError(t, err)
	return b
}

func TestStartsAtMinHeight(t *testing.T) {
	r, applied := newRecording(t, 0)
	assert.Equal(t, DefaultMinHeight, r.Height())
	assert.Empty(t, *applied)

	r, _ = newRecording(t, 80)
	assert.Equal(t, 80.0, r.Height())
}

func TestAppliesValidHeight(t *testing.T) {
	r, applied := newRecording(t, 50)

	require.NoError(t, r.OnRaw(raw(t, bridge.NewHeight(130))))
	assert.Equal(t, 130.0, r.Height())
	assert.Equal(t, []float64{130}, *applied)
}

func TestFloorsReportsBelowMinimum(t *testing.T) {
	r, applied := newRecording(t, 50)

	r.Apply(bridge.NewHeight(12))
	assert.Equal(t, 50.0, r.Height())
	assert.Empty(t, *applied, "flooring to the current height is not a change")

	r.Apply(bridge.NewHeight(200))
	r.Apply(bridge.NewHeight(12))
	assert.Equal(t, 50.0, r.Height())
	assert.Equal(t, []float64{200, 50}, *applied)
}

func TestDiscardsInvalidPayloads(t *testing.T) {
	r, applied := newRecording(t, 50)
	r.Apply(bridge.NewHeight(130))

	cases := [][]byte{
		[]byte(`{"type":"height","height":`),
		[]byte(`{"type":"scroll","height":200,"timestamp":1}`),
		[]byte(`{"type":"height","height":0,"timestamp":1}`),
		[]byte(`{"type":"height","height":-3,"timestamp":1}`),
		[]byte(`{"type":"height","timestamp":1}`),
	}
	for _, c := range cases {
		assert.Error(t, r.OnRaw(c))
	}

	assert.Equal(t, 130.0, r.Height())
	assert.Equal(t, []float64{130}, *applied)
}

func TestSubPixelJitterIgnored(t *testing.T) {
	r, applied := newRecording(t, 50)

	r.Apply(bridge.NewHeight(130))
	r.Apply(bridge.NewHeight(130.5))
	r.Apply(bridge.NewHeight(129.2))
	assert.Equal(t, 130.0, r.Height())

	r.Apply(bridge.NewHeight(145))
	assert.Equal(t, []float64{130, 145}, *applied)
}

func TestRepeatedHeightIdempotent(t *testing.T) {
	r, applied := newRecording(t, 50)

	for i := 0; i < 4; i++ {
		r.Apply(bridge.NewHeight(210))
	}
	assert.Equal(t, 210.0, r.Height())
	assert.Equal(t, []float64{210}, *applied)
}

func TestSetMinHeight(t *testing.T) {
	r, applied := newRecording(t, 50)

	// Raising the floor above the current height lifts the display.
	r.SetMinHeight(90)
	assert.Equal(t, 90.0, r.Height())
	assert.Equal(t, []float64{90}, *applied)

	// Lowering it later does not shrink measured content.
	r.Apply(bridge.NewHeight(300))
	r.SetMinHeight(50)
	assert.Equal(t, 300.0, r.Height())
	assert.Equal(t, []float64{90, 300}, *applied)
}

func TestCloseStopsUpdates(t *testing.T) {
	r, applied := newRecording(t, 50)
	r.Apply(bridge.NewHeight(130))

	r.Close()
	r.Apply(bridge.NewHeight(500))
	r.SetMinHeight(400)

	assert.Equal(t, 130.0, r.Height())
	assert.Equal(t, []float64{130}, *applied)
}
