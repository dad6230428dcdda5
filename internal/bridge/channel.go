package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/glyphcast/mathview/internal/metrics"
)

// ErrClosed is returned by Emit after the bridge is closed.
var ErrClosed = errors.New("bridge is closed")

// Bridge is the one-directional channel from the sandboxed content to the
// host. Implementations must preserve emission order within a session; the
// receiver's filtering depends on it.
type Bridge interface {
	Emit(ctx context.Context, raw []byte) error
}

// Channel is an in-process ordered Bridge backed by a buffered channel.
// Emission never blocks the content side: when the buffer is full the
// notification is dropped and counted, and a fresher one follows shortly.
type Channel struct {
	ch     chan []byte
	mu     sync.Mutex
	closed bool
}

// NewChannel creates a channel bridge with the given buffer size.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan []byte, size)}
}

// Emit enqueues a raw payload for the host.
func (c *Channel) Emit(ctx context.Context, raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	// Copy: the sandbox may reuse its buffer after Emit returns.
	dup := make([]byte, len(raw))
	copy(dup, raw)

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case c.ch <- dup:
		metrics.NotificationsEmitted.Inc()
		return nil
	default:
		metrics.NotificationsDropped.Inc()
		return nil
	}
}

// Receive returns the ordered stream of raw payloads. The channel is closed
// by Close; buffered payloads remain readable afterwards.
func (c *Channel) Receive() <-chan []byte {
	return c.ch
}

// Close stops the bridge. Subsequent Emit calls fail with ErrClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
