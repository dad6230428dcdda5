package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/glyphcast/mathview/internal/bridge"
	"github.com/glyphcast/mathview/internal/dom"
	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/metrics"
)

// Runtime hosts the injected monitor script in a goja VM with just enough
// browser surface for it to run: a document backed by a dom.Document,
// observer shims wired to the document's change dispatch, and virtual timers.
type Runtime struct {
	vm  *goja.Runtime
	cfg Config
	log *logging.Logger
	mu  sync.Mutex

	console []LogEntry

	bridge      bridge.Bridge
	doc         *dom.Document
	unsubscribe func()

	elems   map[*dom.Node]*goja.Object
	nodeIDs map[int64]*dom.Node
	nextNID int64

	resizeObs    []*resizeObserver
	mutationObs  []*mutationObserver
	winListeners map[string][]goja.Callable
	docListeners map[string][]goja.Callable

	timers *scheduler
}

type resizeObserver struct {
	cb     goja.Callable
	nodes  map[*dom.Node]struct{}
	active bool
}

type mutationObserver struct {
	cb     goja.Callable
	active bool
}

// New creates a runtime.
func New(cfg Config, log *logging.Logger) (*Runtime, error) {
	if log == nil {
		log = logging.NewNop()
	}
	r := &Runtime{
		cfg: cfg,
		log: log.Named("sandbox"),
	}
	if err := r.initVM(); err != nil {
		return nil, err
	}
	return r, nil
}

// initVM builds a fresh VM with the document-independent globals.
func (r *Runtime) initVM() error {
	vm := goja.New()
	if r.cfg.MaxCallStack > 0 {
		vm.SetMaxCallStackSize(r.cfg.MaxCallStack)
	}
	r.vm = vm
	r.console = nil
	r.elems = make(map[*dom.Node]*goja.Object)
	r.nodeIDs = make(map[int64]*dom.Node)
	r.nextNID = 1
	r.resizeObs = nil
	r.mutationObs = nil
	r.winListeners = make(map[string][]goja.Callable)
	r.docListeners = make(map[string][]goja.Callable)
	r.timers = newScheduler()
	return r.setupGlobals()
}

// SetBridge attaches the outbound message channel. Posts before a bridge is
// attached are dropped.
func (r *Runtime) SetBridge(b bridge.Bridge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bridge = b
}

// Load attaches a document and executes a script against it. Any previous
// document, observers, and pending timers are discarded first: a load is a
// fresh content lifetime and the monitor's state starts over.
func (r *Runtime) Load(ctx context.Context, doc *dom.Document, script string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()

	r.detachDocument()
	r.resizeObs = nil
	r.mutationObs = nil
	r.winListeners = make(map[string][]goja.Callable)
	r.docListeners = make(map[string][]goja.Callable)
	r.timers.reset()
	r.console = nil
	r.doc = doc

	if err := r.setupDocumentGlobals(); err != nil {
		return nil, fmt.Errorf("failed to install document globals: %w", err)
	}

	// Interrupt long-running scripts, same as any other untrusted input.
	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()
	done := make(chan struct{})
	go func() {
		select {
		case <-timer.C:
			r.vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			r.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	_, err := r.vm.RunString(script)
	close(done)
	r.vm.ClearInterrupt()

	result := &Result{
		Duration: time.Since(start),
		Console:  append([]LogEntry{}, r.console...),
	}
	if err != nil {
		result.Error = err
		return result, fmt.Errorf("script execution failed: %w", err)
	}

	r.unsubscribe = doc.Subscribe(r.onChange)
	return result, nil
}

// Advance moves virtual time forward, running every timer that falls due.
// Debounce windows and staggered rechecks resolve here.
func (r *Runtime) Advance(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timers.advance(r.timers.now+d, func(fn goja.Callable) {
		if _, err := fn(goja.Undefined()); err != nil {
			r.log.Warn("timer callback failed", zap.Error(err))
		}
	})
}

// DispatchWindowEvent delivers a window event ("resize", "load") to
// registered listeners.
func (r *Runtime) DispatchWindowEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cb := range r.winListeners[name] {
		if _, err := cb(goja.Undefined()); err != nil {
			r.log.Warn("window listener failed", zap.String("event", name), zap.Error(err))
		}
	}
}

// Console returns the console output captured since the last load.
func (r *Runtime) Console() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry{}, r.console...)
}

// onChange routes document changes into the observer shims.
func (r *Runtime) onChange(ch dom.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ch.Kind {
	case dom.ChangeResize:
		for _, obs := range r.resizeObs {
			if !obs.active || obs.cb == nil {
				continue
			}
			if _, watched := obs.nodes[ch.Node]; !watched {
				continue
			}
			r.callObserver(obs.cb)
		}
	case dom.ChangeChildList, dom.ChangeAttributes:
		for _, obs := range r.mutationObs {
			if obs.active && obs.cb != nil {
				r.callObserver(obs.cb)
			}
		}
	}
}

func (r *Runtime) callObserver(cb goja.Callable) {
	if _, err := cb(goja.Undefined(), r.vm.NewArray()); err != nil {
		r.log.Warn("observer callback failed", zap.Error(err))
	}
}

// emit forwards a serialized notification from the script to the bridge.
func (r *Runtime) emit(payload string) {
	if r.bridge == nil {
		return
	}
	if err := r.bridge.Emit(context.Background(), []byte(payload)); err != nil {
		r.log.Warn("bridge emit failed", zap.Error(err))
	}
}

func (r *Runtime) recordConsole(level, msg string) {
	r.console = append(r.console, LogEntry{Level: level, Message: msg, Time: time.Now()})
	if level == "error" {
		metrics.MonitorErrors.Inc()
		r.log.Debug("monitor error", zap.String("message", msg))
	}
}

func (r *Runtime) detachDocument() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.doc = nil
	r.elems = make(map[*dom.Node]*goja.Object)
	r.nodeIDs = make(map[int64]*dom.Node)
	r.nextNID = 1
}

// Reset discards the VM and all loaded state, leaving the runtime ready for
// a new load.
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detachDocument()
	return r.initVM()
}

// Close releases resources.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detachDocument()
	r.vm = nil
	r.console = nil
	return nil
}
