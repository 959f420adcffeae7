/*
Package metrics exposes the server's Prometheus metrics and liveness/
readiness HTTP handlers.

A Collector polls internal/engine and internal/registry on a ticker and
updates a small set of package-level gauges; the session
package updates commit/abort counters and the commit-wait histogram
directly as each transaction settles.

	metrics.CommitsTotal.Inc()
	timer := metrics.NewTimer()
	status := txn.Commit(ctx)
	timer.ObserveDuration(metrics.CommitWaitDuration)
*/
package metrics
