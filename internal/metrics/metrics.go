// Package metrics defines and registers the Prometheus metrics of the
// operator client. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at load time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aeropart"

// OperationsTotal counts lifecycle operation attempts by final outcome.
// Labels:
//   - operation: register/maintenance/transfer/status
//   - outcome: confirmed, or the fault category of the failure
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of lifecycle operation attempts, labelled by outcome.",
	},
	[]string{"operation", "outcome"},
)

// OperationDuration observes submit-to-confirmation latency per operation.
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Submit-to-confirmation latency of lifecycle operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// SessionTransitionsTotal counts session state transitions.
// Label:
//   - state: disconnected, connecting, connected
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"state"},
)

// HistoryDegradedTotal counts part-history fetches that degraded to an empty
// sequence because one history type failed.
// Label:
//   - history: maintenance or custody
var HistoryDegradedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_degraded_total",
		Help:      "Total number of part loads where a history fetch degraded to empty.",
	},
	[]string{"history"},
)
