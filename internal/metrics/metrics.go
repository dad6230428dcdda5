package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Protocol metrics. Registered once on the default registry; both sides of the
// height-synchronization protocol report here.
var (
	// NotificationsEmitted counts height notifications pushed onto the bridge.
	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathview_notifications_emitted_total",
		Help: "Height notifications emitted by the content-side monitor",
	})

	// NotificationsDropped counts notifications lost to bridge backpressure.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathview_notifications_dropped_total",
		Help: "Height notifications dropped because the bridge buffer was full",
	})

	// MessagesApplied counts inbound notifications that changed the displayed height.
	MessagesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathview_messages_applied_total",
		Help: "Valid height notifications applied by the host receiver",
	})

	// MessagesDiscarded counts inbound messages the receiver ignored, by reason.
	MessagesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathview_messages_discarded_total",
		Help: "Inbound messages discarded by the host receiver",
	}, []string{"reason"})

	// MonitorErrors counts measurement failures reported by the injected script.
	MonitorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathview_monitor_errors_total",
		Help: "Errors logged by the content-side height monitor",
	})

	// BridgeConnections tracks open WebSocket ingest connections.
	BridgeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mathview_bridge_connections",
		Help: "Open height-notification ingest connections",
	})

	// BridgeThrottled counts ingest messages rejected by rate limiting.
	BridgeThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathview_bridge_throttled_total",
		Help: "Ingest messages dropped by the per-connection rate limiter",
	})

	// DisplayedHeight tracks the most recently applied container height.
	DisplayedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mathview_displayed_height_px",
		Help: "Current displayed container height in layout pixels",
	})
)

// Discard reasons used with MessagesDiscarded.
const (
	ReasonMalformed   = "malformed"
	ReasonWrongType   = "wrong_type"
	ReasonNonPositive = "non_positive"
	ReasonClosed      = "closed"
	ReasonNoChange    = "no_change"
)
