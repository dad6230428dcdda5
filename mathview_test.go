package mathview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphcast/mathview/internal/bridge"
)

type heightLog struct {
	mu      sync.Mutex
	applied []float64
}

func (h *heightLog) record(v float64) {
	h.mu.Lock()
	h.applied = append(h.applied, v)
	h.mu.Unlock()
}

func (h *heightLog) snapshot() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64{}, h.applied...)
}

func emitHeight(t *testing.T, b bridge.Bridge, height float64) {
	t.Helper()
	raw, err := bridge.Encode(bridge.NewHeight(height))
	require.NoError(t, err)
	require.NoError(t, b.Emit(context.Background(), raw))
}

func waitHeight(t *testing.T, v *View, want float64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if v.Height() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("height never reached %v, at %v", want, v.Height())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestViewDefaults(t *testing.T) {
	v := New(Options{Source: "$x$"})
	assert.Equal(t, 50.0, v.Height())
	assert.NotEmpty(t, v.LoadID())
	assert.Nil(t, v.Bridge())
}

func TestMountEmitUnmount(t *testing.T) {
	log := &heightLog{}
	v := New(Options{
		Source:         "$x^2$",
		OnHeightChange: log.record,
	})

	require.NoError(t, v.Mount(context.Background()))
	assert.Error(t, v.Mount(context.Background()), "double mount rejected")

	b := v.Bridge()
	require.NotNil(t, b)

	emitHeight(t, b, 130)
	waitHeight(t, v, 130)

	// Sub-pixel jitter does not disturb the display.
	emitHeight(t, b, 130.6)
	emitHeight(t, b, 145)
	waitHeight(t, v, 145)

	v.Unmount()
	assert.Equal(t, []float64{130, 145}, log.snapshot())
	assert.Equal(t, 145.0, v.Height(), "last height survives unmount")
	assert.Nil(t, v.Bridge())

	v.Unmount() // idempotent
}

func TestMountAfterUnmountStartsFresh(t *testing.T) {
	v := New(Options{Source: "$x$", MinHeight: 80})

	require.NoError(t, v.Mount(context.Background()))
	emitHeight(t, v.Bridge(), 200)
	waitHeight(t, v, 200)
	v.Unmount()

	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 80.0, v.Height())
	v.Unmount()
}

func TestContextCancellationUnmounts(t *testing.T) {
	v := New(Options{Source: "$x$"})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, v.Mount(ctx))

	cancel()
	deadline := time.After(2 * time.Second)
	for v.Bridge() != nil {
		select {
		case <-deadline:
			t.Fatal("view never unmounted after cancellation")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestInvalidPayloadIgnored(t *testing.T) {
	v := New(Options{Source: "$x$"})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	b := v.Bridge()
	require.NoError(t, b.Emit(context.Background(), []byte(`{"type":"height","height":-1}`)))
	require.NoError(t, b.Emit(context.Background(), []byte(`not json`)))
	emitHeight(t, b, 90)
	waitHeight(t, v, 90)
}

func TestReloadChangesLoadID(t *testing.T) {
	v := New(Options{Source: "$x$"})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	emitHeight(t, v.Bridge(), 300)
	waitHeight(t, v, 300)

	before := v.LoadID()
	after := v.Reload()
	assert.NotEqual(t, before, after)
	assert.Equal(t, after, v.LoadID())
	assert.Equal(t, 300.0, v.Height(), "reload keeps the height until the new document reports")
}

func TestSetMinHeight(t *testing.T) {
	v := New(Options{Source: "$x$"})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	v.SetMinHeight(120)
	assert.Equal(t, 120.0, v.Height())
}

func TestHTMLGeneration(t *testing.T) {
	v := New(Options{
		Source: "Euler: $e^{i\\pi} + 1 = 0$",
		ContainerStyle: map[string]any{
			"backgroundColor": "#fafafa",
			"borderWidth":     "2",
		},
	})

	html, err := v.HTML()
	require.NoError(t, err)

	assert.Contains(t, html, "e^{i\\pi}")
	assert.Contains(t, html, "renderMathInElement")
	assert.Contains(t, html, "MathViewBridge")
	assert.Contains(t, html, "background-color: #fafafa")
	assert.Contains(t, html, "border-width: 2px")
}

func TestContainerStyleCarriesHeight(t *testing.T) {
	v := New(Options{Source: "$x$", ContainerStyle: map[string]any{"padding": "4px"}})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	emitHeight(t, v.Bridge(), 210)
	waitHeight(t, v, 210)

	style := v.ContainerStyle()
	assert.Equal(t, 210.0, style["height"])
	assert.Equal(t, "100%", style["width"])
	assert.Equal(t, "hidden", style["overflow"])
	assert.Equal(t, "4px", style["padding"])
}
