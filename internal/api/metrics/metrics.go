// Package metrics defines and registers the custom Prometheus metrics of the
// portal. It is the single source of truth for metric names, labels and help
// strings. All metrics register with the default registry on import and are
// served on /metrics next to the echo request metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts settled store operations.
// Labels:
//   - resource: "auth", "clients", "tasks" or "documents"
//   - op: the operation (e.g. "fetch_all", "update", "download")
//   - outcome: "success", "error" or "superseded"
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of settled store operations.",
	},
	[]string{"resource", "op", "outcome"},
)

// StoreOperationDuration measures the time from dispatch to settle, which is
// dominated by the backend round trip.
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of store operations from dispatch to settle.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "op"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// ActiveSessions is the number of state containers held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of portal sessions with a live state container.",
	},
)

// GuardRedirectsTotal counts requests a route guard turned away.
// Labels:
//   - guard: "authenticated" or "admin_only"
//   - to: the redirect target
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of requests redirected by a route guard.",
	},
	[]string{"guard", "to"},
)

// StoreRecorder feeds store observations into the store metrics.
type StoreRecorder struct{}

func (StoreRecorder) ObserveOperation(resource, op, outcome string, elapsed time.Duration) {
	StoreOperationsTotal.WithLabelValues(resource, op, outcome).Inc()
	StoreOperationDuration.WithLabelValues(resource, op).Observe(elapsed.Seconds())
}
