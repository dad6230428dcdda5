package sandbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/glyphcast/mathview/internal/logging"
)

var (
	// ErrPoolClosed is returned when acquiring from a closed pool.
	ErrPoolClosed = errors.New("runtime pool is closed")
	// ErrAcquireTimeout is returned when no runtime frees up in time.
	ErrAcquireTimeout = errors.New("runtime acquisition timeout")
)

// Pool manages reusable runtimes. A load estimate borrows one runtime for
// the duration of a simulated settling window and returns it reset.
type Pool struct {
	cfg      Config
	log      *logging.Logger
	runtimes chan *Runtime
	size     int
	mu       sync.RWMutex
	closed   bool
}

// NewPool creates a pool with size pre-created runtimes.
func NewPool(cfg Config, size int, log *logging.Logger) (*Pool, error) {
	if size <= 0 {
		size = 4
	}

	pool := &Pool{
		cfg:      cfg,
		log:      log,
		runtimes: make(chan *Runtime, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		rt, err := New(cfg, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.runtimes <- rt
	}

	return pool, nil
}

// Acquire takes a runtime from the pool.
func (p *Pool) Acquire(ctx context.Context) (*Runtime, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	select {
	case rt := <-p.runtimes:
		return rt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, ErrAcquireTimeout
	}
}

// Release resets a runtime and returns it to the pool.
func (p *Pool) Release(rt *Runtime) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return rt.Close()
	}

	if err := rt.Reset(); err != nil {
		rt.Close()
		if replacement, nerr := New(p.cfg, p.log); nerr == nil {
			p.runtimes <- replacement
		}
		return err
	}

	select {
	case p.runtimes <- rt:
		return nil
	default:
		return rt.Close()
	}
}

// Close closes the pool and every runtime in it.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.runtimes)

	for rt := range p.runtimes {
		rt.Close()
	}

	return nil
}

// Stats returns pool occupancy.
func (p *Pool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"size":      p.size,
		"available": len(p.runtimes),
		"in_use":    p.size - len(p.runtimes),
		"closed":    p.closed,
	}
}
