package bridge

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glyphcast/mathview/internal/config"
	"github.com/glyphcast/mathview/internal/logging"
	"github.com/glyphcast/mathview/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware decides; the upgrade itself accepts all origins
	},
}

// Sink consumes raw payloads arriving from a remote sandbox. Typically the
// host receiver's OnRaw.
type Sink func(raw []byte)

// Endpoint accepts height notifications from browser-hosted sandboxes over
// WebSocket. Each connection is rate limited independently; a flooding page
// cannot starve the host.
type Endpoint struct {
	cfg  config.IngestConfig
	sink Sink
	log  *logging.Logger
}

// NewEndpoint creates a WebSocket ingest endpoint feeding the given sink.
func NewEndpoint(cfg config.IngestConfig, sink Sink, log *logging.Logger) *Endpoint {
	return &Endpoint{cfg: cfg, sink: sink, log: log.Named("bridge")}
}

// Handler returns the gin handler performing the upgrade and read loop.
func (e *Endpoint) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			e.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		connID := uuid.NewString()
		metrics.BridgeConnections.Inc()
		defer metrics.BridgeConnections.Dec()

		if e.cfg.MaxMessageBytes > 0 {
			conn.SetReadLimit(int64(e.cfg.MaxMessageBytes))
		}
		limiter := rate.NewLimiter(rate.Limit(e.cfg.MessagesPerSecond), e.cfg.Burst)

		e.log.Debug("sandbox connected", zap.String("conn_id", connID))

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					e.log.Debug("websocket read error", zap.String("conn_id", connID), zap.Error(err))
				}
				return
			}

			if !limiter.Allow() {
				metrics.BridgeThrottled.Inc()
				continue
			}

			e.sink(raw)
		}
	}
}

// DocumentSource yields the markup document to serve to the sandbox.
type DocumentSource func() (string, error)

// NewRouter builds a gin engine serving the content document, the ingest
// endpoint, and Prometheus metrics.
func NewRouter(cfg config.IngestConfig, doc DocumentSource, sink Sink, log *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	endpoint := NewEndpoint(cfg, sink, log)

	router.GET("/document", func(c *gin.Context) {
		html, err := doc()
		if err != nil {
			log.Error("document generation failed", zap.Error(err))
			c.String(http.StatusInternalServerError, "document generation failed")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})
	router.GET("/bridge", endpoint.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
