package mathview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glyphcast/mathview/internal/bridge"
	"github.com/glyphcast/mathview/internal/config"
	"github.com/glyphcast/mathview/internal/dom"
	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/sandbox"
	"github.com/glyphcast/mathview/internal/script"
)

// ErrNoMeasurement is returned when the monitor produced no height within
// the settling window.
var ErrNoMeasurement = errors.New("no height measurement produced")

// settleWindow covers the staggered rechecks plus the trailing debounce of
// each, in virtual time.
const settleWindow = 2 * time.Second

// Estimator predicts the settled height of a document without displaying
// it: the monitor script runs against the document's element tree in a
// pooled runtime, virtual time is advanced past the recheck schedule, and
// the last reported height wins. Safe for concurrent use; concurrency is
// bounded by the pool size.
type Estimator struct {
	pool    *sandbox.Pool
	monitor string
	log     *logging.Logger
}

// NewEstimator creates an estimator with its own runtime pool.
func NewEstimator(cfg *config.Config, log *logging.Logger) (*Estimator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}

	monitor, err := script.Render(script.FromConfig(cfg.Monitor))
	if err != nil {
		return nil, err
	}

	sbCfg := sandbox.DefaultConfig()
	sbCfg.Timeout = cfg.Sandbox.Timeout
	pool, err := sandbox.NewPool(sbCfg, cfg.Sandbox.PoolSize, log)
	if err != nil {
		return nil, err
	}

	return &Estimator{
		pool:    pool,
		monitor: monitor,
		log:     log.Named("estimator"),
	}, nil
}

// Estimate runs the monitor against doc and returns its settled height.
// The document's nodes must carry layout metrics; without them the monitor
// measures zero and no height is reported.
func (e *Estimator) Estimate(ctx context.Context, doc *dom.Document) (float64, error) {
	rt, err := e.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("estimate height: %w", err)
	}
	defer e.pool.Release(rt)

	ch := bridge.NewChannel(32)
	rt.SetBridge(ch)

	if _, err := rt.Load(ctx, doc, e.monitor); err != nil {
		ch.Close()
		return 0, fmt.Errorf("estimate height: %w", err)
	}

	rt.Advance(settleWindow)
	ch.Close()

	var height float64
	var seen bool
	for raw := range ch.Receive() {
		m, err := bridge.Decode(raw)
		if err != nil {
			continue
		}
		height = m.Height
		seen = true
	}
	if !seen {
		return 0, ErrNoMeasurement
	}
	return height, nil
}

// Close releases the estimator's runtimes.
func (e *Estimator) Close() error {
	return e.pool.Close()
}
