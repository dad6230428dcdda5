// Package metrics exposes Prometheus instrumentation for the
// height-synchronization protocol: emission and suppression counts on the
// content side, accept/discard counts on the host side, and gauges for the
// displayed height and open bridge connections.
package metrics
