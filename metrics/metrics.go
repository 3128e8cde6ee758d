package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// DecisionsTotal counts terminal pipeline decisions by status.
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "decisions_total",
		Help:      "Total number of submissions processed, labeled by decision status.",
	}, []string{"status"})

	// RejectionsTotal counts rejections by the check that produced them.
	RejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "rejections_total",
		Help:      "Total number of rejected submissions, labeled by rejecting check.",
	}, []string{"check"})

	// InconclusiveChecksTotal counts checks whose technical failure was
	// treated as a pass under the fail-open policy.
	InconclusiveChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "inconclusive_checks_total",
		Help:      "Total number of checks that failed technically and were treated as passed.",
	}, []string{"check"})

	// ProcessingDurationSeconds is end-to-end time per submission.
	ProcessingDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "processing_duration_seconds",
		Help:      "End-to-end time to validate a submission and append its decision.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"status"})

	// LedgerAppendErrorsTotal counts failed ledger appends.
	LedgerAppendErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "ledger_append_errors_total",
		Help:      "Total number of ledger append failures.",
	})

	// PublishErrorsTotal counts failed decision publishes.
	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "civicreport",
		Subsystem: "pipeline",
		Name:      "publish_errors_total",
		Help:      "Total number of decision publish failures (best-effort).",
	})
)

// Register registers pipeline metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			DecisionsTotal,
			RejectionsTotal,
			InconclusiveChecksTotal,
			ProcessingDurationSeconds,
			LedgerAppendErrorsTotal,
			PublishErrorsTotal,
		)
	})
}
