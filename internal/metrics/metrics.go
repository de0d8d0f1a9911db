// Package metrics exposes the bridge's Prometheus metrics:
//   - bridge_cycles_total                  – polling cycles completed
//   - bridge_feed_errors_total             – feed fetches that failed
//   - bridge_ideas_dispatched_total{side}  – ideas turned into brackets
//   - bridge_ideas_skipped_total{reason}   – ideas dead-lettered
//   - bridge_orders_submitted_total{side}  – individual legs submitted
//   - bridge_throttle_denials_total        – brackets blocked by the open-order cap
//   - bridge_cursor_position               – current watermark (gauge)
//
// Served in Prometheus text format at /metrics when a listen address is
// configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_cycles_total",
		Help: "Polling cycles completed",
	})

	FeedErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_feed_errors_total",
		Help: "Feed fetches that failed and were deferred to the next cycle",
	})

	IdeasDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_ideas_dispatched_total",
		Help: "Trade ideas turned into bracket orders",
	}, []string{"side"})

	IdeasSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_ideas_skipped_total",
		Help: "Trade ideas dead-lettered, split by reason",
	}, []string{"reason"})

	OrdersSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_orders_submitted_total",
		Help: "Individual order legs submitted to the broker",
	}, []string{"side"})

	ThrottleDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bridge_throttle_denials_total",
		Help: "Brackets blocked by the per-side open-order ceiling",
	})

	CursorPosition = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_cursor_position",
		Help: "Highest feed id acted on",
	})
)

func init() {
	prometheus.MustRegister(
		Cycles,
		FeedErrors,
		IdeasDispatched,
		IdeasSkipped,
		OrdersSubmitted,
		ThrottleDenials,
		CursorPosition,
	)
}

// Serve starts the /metrics listener. Blocks; run in a goroutine.
func Serve(listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, mux)
}
