package assets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/markup"
)

// Relative paths of the typesetting assets under the distribution base URL.
const (
	StylesheetPath = "katex.min.css"
	RuntimePath    = "katex.min.js"
	AutoRenderPath = "contrib/auto-render.min.js"
)

// Fetcher downloads typesetting assets and caches them in memory so a
// document can embed them inline instead of referencing a CDN. Safe for
// concurrent use.
type Fetcher struct {
	client *resty.Client
	base   string
	log    *logging.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewFetcher creates a fetcher rooted at base (the asset distribution URL,
// without a trailing slash).
func NewFetcher(base string, log *logging.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Fetcher{
		client: client,
		base:   strings.TrimSuffix(base, "/"),
		log:    log.Named("assets"),
		cache:  make(map[string][]byte),
	}
}

// Fetch retrieves a single asset by its path relative to the base URL.
// Responses are cached; subsequent calls for the same path do not hit the
// network.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := f.base + "/" + strings.TrimPrefix(path, "/")

	f.mu.RLock()
	cached, ok := f.cache[url]
	f.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch asset %s: status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if err := verify(path, body); err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}

	f.mu.Lock()
	f.cache[url] = body
	f.mu.Unlock()

	f.log.Debug("asset cached",
		zap.String("url", url),
		zap.Int("bytes", len(body)))
	return body, nil
}

// Bundle fetches the stylesheet, runtime, and auto-render extension and
// returns them packaged for inline embedding.
func (f *Fetcher) Bundle(ctx context.Context) (*markup.InlineAssets, error) {
	css, err := f.Fetch(ctx, StylesheetPath)
	if err != nil {
		return nil, err
	}
	runtime, err := f.Fetch(ctx, RuntimePath)
	if err != nil {
		return nil, err
	}
	autoRender, err := f.Fetch(ctx, AutoRenderPath)
	if err != nil {
		return nil, err
	}

	return &markup.InlineAssets{
		CSS:     string(css),
		Scripts: []string{string(runtime), string(autoRender)},
	}, nil
}

// Clear drops all cached assets.
func (f *Fetcher) Clear() {
	f.mu.Lock()
	f.cache = make(map[string][]byte)
	f.mu.Unlock()
}

// verify rejects payloads whose detected content type contradicts the asset
// kind. Minified css and js both detect as text; the check guards against a
// CDN error page or binary response being embedded into a document.
func verify(path string, body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}

	mt := mimetype.Detect(body)
	if mt.Is("text/html") && !strings.HasSuffix(path, ".html") {
		return fmt.Errorf("unexpected content type %s", mt.String())
	}
	for parent := mt; parent != nil; parent = parent.Parent() {
		if parent.Is("text/plain") || parent.Is("text/javascript") || parent.Is("application/javascript") || parent.Is("text/css") {
			return nil
		}
	}
	return fmt.Errorf("unexpected content type %s", mt.String())
}
