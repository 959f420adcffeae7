package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsActive is the number of transactions currently tracked by
	// the manager: every transaction with a nonzero reference count,
	// whatever its status.
	TransactionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "xacto_transactions_active",
			Help: "Number of transactions currently live in the manager",
		},
	)

	// SessionsActive is the number of currently connected client sessions.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "xacto_sessions_active",
			Help: "Number of currently connected client sessions",
		},
	)

	CommitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xacto_commits_total",
			Help: "Total number of transactions that reached COMMITTED",
		},
	)

	AbortsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xacto_aborts_total",
			Help: "Total number of transactions that reached ABORTED",
		},
	)

	CommitWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xacto_commit_wait_duration_seconds",
			Help:    "Time a COMMIT spent blocked on dependency resolution",
			Buckets: prometheus.DefBuckets,
		},
	)

	// BucketChainLength records the length of the longest version chain
	// observed across the store's buckets on each collection tick, as a
	// coarse signal of garbage collection keeping up with write volume.
	BucketChainLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "xacto_bucket_max_chain_length",
			Help: "Longest version chain observed across all buckets",
		},
	)
)

func init() {
	prometheus.MustRegister(TransactionsActive)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(CommitsTotal)
	prometheus.MustRegister(AbortsTotal)
	prometheus.MustRegister(CommitWaitDuration)
	prometheus.MustRegister(BucketChainLength)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
