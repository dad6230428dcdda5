package mathview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/glyphcast/mathview/internal/bridge"
	"github.com/glyphcast/mathview/internal/config"
	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/markup"
	"github.com/glyphcast/mathview/internal/receiver"
	"github.com/glyphcast/mathview/internal/script"
)

// ErrNotMounted is returned by operations that need a live bridge.
var ErrNotMounted = errors.New("view is not mounted")

// HeightFunc is invoked on the bridge-consuming goroutine whenever the
// displayed height changes. It must not block.
type HeightFunc func(height float64)

// Options configure a View. The zero value renders with library defaults
// and no change callback.
type Options struct {
	// Source is the content body: text with LaTeX delimiters, or HTML.
	Source string
	// MinHeight floors the displayed height. Zero means the default floor.
	MinHeight float64
	// OnHeightChange observes applied height changes.
	OnHeightChange HeightFunc
	// ContainerStyle overrides the outer wrapper's styling. Keys may be
	// camelCase or kebab-case; numeric-string border widths are coerced.
	ContainerStyle map[string]any
	// MathStyle is appended to the inner content container.
	MathStyle map[string]string
	// Sanitize runs Source through an HTML sanitizer before embedding.
	Sanitize bool
	// BridgeEndpoint, when set, wires the generated document's bridge to a
	// WebSocket ingest endpoint instead of an in-process channel.
	BridgeEndpoint string
	// Script overrides the monitor tuning. Zero fields take defaults.
	Script *script.Options
	// Inline embeds fetched engine assets so the document is self-contained.
	Inline *markup.InlineAssets
	// KatexBase overrides the asset distribution URL. Ignored when Inline
	// is set.
	KatexBase string
	// BufferSize is the bridge buffer depth. Zero means the default.
	BufferSize int
	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// View ties the pieces of the height-synchronization protocol together for
// one piece of content: it generates the self-measuring document, owns the
// bridge the document posts to, and runs the host receiver that sizes the
// frame. Safe for concurrent use.
type View struct {
	opts Options
	log  *logging.Logger

	mu     sync.Mutex
	loadID string
	br     *bridge.Channel
	rcv    *receiver.Receiver
	done   chan struct{}
}

// New creates an unmounted view. Call Mount to start receiving heights.
func New(opts Options) *View {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = config.Default().Monitor.MinHeight
	}
	if opts.KatexBase == "" {
		opts.KatexBase = config.Default().Assets.KatexBase
	}
	opts.ContainerStyle = NormalizeContainerStyle(opts.ContainerStyle)

	return &View{
		opts:   opts,
		log:    opts.Logger.Named("view"),
		loadID: uuid.NewString(),
	}
}

// Mount starts the view: a fresh bridge, a receiver seeded at the minimum
// height, and a goroutine draining the bridge into the receiver. Mounting
// a mounted view is an error.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.br != nil {
		return errors.New("view is already mounted")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.br = bridge.NewChannel(v.opts.BufferSize)
	v.rcv = receiver.New(v.opts.MinHeight, receiver.ChangeFunc(v.opts.OnHeightChange), v.opts.Logger)
	v.done = make(chan struct{})

	go v.consume(v.br, v.rcv, v.done)

	if ctx.Done() != nil {
		done := v.done
		go func() {
			select {
			case <-ctx.Done():
				v.Unmount()
			case <-done:
			}
		}()
	}
	return nil
}

// consume drains the bridge into the receiver until the bridge closes.
func (v *View) consume(br *bridge.Channel, rcv *receiver.Receiver, done chan struct{}) {
	defer close(done)
	for raw := range br.Receive() {
		// Receiver logs and counts rejects; nothing more to do here.
		_ = rcv.OnRaw(raw)
	}
}

// Unmount closes the bridge, waits for buffered notifications to apply, and
// stops the receiver. The last displayed height stays readable. Unmounting
// an unmounted view is a no-op.
func (v *View) Unmount() {
	v.mu.Lock()
	br, done, rcv := v.br, v.done, v.rcv
	v.br = nil
	v.done = nil
	v.mu.Unlock()

	if br == nil {
		return
	}
	br.Close()
	<-done
	rcv.Close()
}

// Bridge returns the channel the sandboxed document posts to, or nil when
// the view is unmounted.
func (v *View) Bridge() bridge.Bridge {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.br == nil {
		return nil
	}
	return v.br
}

// Height returns the current displayed height. Before the first applied
// notification this is the minimum height.
func (v *View) Height() float64 {
	v.mu.Lock()
	rcv := v.rcv
	v.mu.Unlock()
	if rcv == nil {
		return v.opts.MinHeight
	}
	return rcv.Height()
}

// SetMinHeight adjusts the floor on a mounted view.
func (v *View) SetMinHeight(h float64) {
	v.mu.Lock()
	rcv := v.rcv
	if h > 0 {
		v.opts.MinHeight = h
	}
	v.mu.Unlock()
	if rcv != nil {
		rcv.SetMinHeight(h)
	}
}

// LoadID identifies the current content lifetime. It changes on Reload so
// embedders can discard stale document state.
func (v *View) LoadID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadID
}

// Reload begins a new content lifetime and returns its id. The displayed
// height is kept until the reloaded document reports; collapsing to the
// floor first would make the frame jump twice.
func (v *View) Reload() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadID = uuid.NewString()
	return v.loadID
}

// HTML generates the self-measuring document for the current options.
func (v *View) HTML() (string, error) {
	opts := script.Default()
	if v.opts.Script != nil {
		opts = *v.opts.Script
	}
	monitor, err := script.Render(opts)
	if err != nil {
		return "", fmt.Errorf("generate document: %w", err)
	}

	return markup.Document(v.opts.Source, markup.Options{
		ContainerStyle: cssStyle(v.opts.ContainerStyle),
		MathStyle:      v.opts.MathStyle,
		KatexBase:      v.opts.KatexBase,
		MonitorScript:  monitor,
		BridgeEndpoint: v.opts.BridgeEndpoint,
		Sanitize:       v.opts.Sanitize,
		Inline:         v.opts.Inline,
	})
}

// ContainerStyle returns the style the embedder should apply to the frame:
// the caller's normalized overrides plus the current height, full width,
// and overflow containment.
func (v *View) ContainerStyle() map[string]any {
	v.mu.Lock()
	base := make(map[string]any, len(v.opts.ContainerStyle)+2)
	for k, val := range v.opts.ContainerStyle {
		base[k] = val
	}
	v.mu.Unlock()

	base["height"] = v.Height()
	if _, ok := base["width"]; !ok {
		base["width"] = "100%"
	}
	if _, ok := base["overflow"]; !ok {
		base["overflow"] = "hidden"
	}
	return base
}
