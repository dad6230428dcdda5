package receiver

import (
	"errors"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/glyphcast/mathview/internal/bridge"
	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/metrics"
)

// DefaultMinHeight is the floor applied to displayed heights when the
// caller does not provide one.
const DefaultMinHeight = 50.0

// applyThreshold is the minimum change between the current displayed height
// and a candidate before the candidate is applied. Sub-pixel jitter from
// repeated reports of the same content is discarded.
const applyThreshold = 1.0

// ChangeFunc is invoked after a height change has been applied. It runs on
// the goroutine that delivered the message and must not block.
type ChangeFunc func(height float64)

// Receiver consumes height messages from a sandboxed document and maintains
// the displayed height for the embedding frame. Malformed or out-of-range
// messages are logged and discarded without disturbing the current height.
type Receiver struct {
	mu        sync.Mutex
	minHeight float64
	current   float64
	closed    bool
	onChange  ChangeFunc
	log       *logging.Logger
}

// New creates a receiver. The displayed height starts at minHeight so the
// frame is never collapsed to zero before the first report arrives. A
// non-positive minHeight falls back to DefaultMinHeight.
func New(minHeight float64, onChange ChangeFunc, log *logging.Logger) *Receiver {
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	return &Receiver{
		minHeight: minHeight,
		current:   minHeight,
		onChange:  onChange,
		log:       log.Named("receiver"),
	}
}

// OnRaw decodes a raw bridge payload and applies it. Invalid payloads are
// counted and dropped; the error return reports why for callers that care.
func (r *Receiver) OnRaw(raw []byte) error {
	msg, err := bridge.Decode(raw)
	if err != nil {
		r.discard(err)
		return err
	}
	r.Apply(msg)
	return nil
}

// Apply feeds a decoded message through the floor and threshold rules.
func (r *Receiver) Apply(msg bridge.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		metrics.MessagesDiscarded.WithLabelValues(metrics.ReasonClosed).Inc()
		return
	}

	candidate := math.Max(msg.Height, r.minHeight)
	if math.Abs(candidate-r.current) <= applyThreshold {
		metrics.MessagesDiscarded.WithLabelValues(metrics.ReasonNoChange).Inc()
		return
	}

	r.current = candidate
	metrics.MessagesApplied.Inc()
	metrics.DisplayedHeight.Set(candidate)
	r.log.Debug("height applied",
		zap.Float64("height", candidate),
		zap.Float64("reported", msg.Height))

	if r.onChange != nil {
		r.onChange(candidate)
	}
}

// Height returns the current displayed height.
func (r *Receiver) Height() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetMinHeight updates the floor. Raising it above the current height lifts
// the displayed height immediately; lowering it never shrinks content that
// already measured taller.
func (r *Receiver) SetMinHeight(minHeight float64) {
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.minHeight = minHeight
	if r.closed || r.current >= minHeight {
		return
	}

	r.current = minHeight
	metrics.DisplayedHeight.Set(minHeight)
	if r.onChange != nil {
		r.onChange(minHeight)
	}
}

// Close stops the receiver. Messages arriving afterwards are discarded; the
// last displayed height stays readable.
func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *Receiver) discard(err error) {
	reason := metrics.ReasonMalformed
	switch {
	case errors.Is(err, bridge.ErrWrongType):
		reason = metrics.ReasonWrongType
	case errors.Is(err, bridge.ErrNonPositive):
		reason = metrics.ReasonNonPositive
	}
	metrics.MessagesDiscarded.WithLabelValues(reason).Inc()
	r.log.Debug("message discarded", zap.String("reason", reason), zap.Error(err))
}
