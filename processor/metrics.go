package processor

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const MetricsSubsystem = "processor"

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of transactions applied and committed.
	ProcessedTxs metrics.Counter
	// Number of transactions rejected at decode, validation or routing.
	FailedTxs metrics.Counter
	// Route execution time in seconds, labeled by message kind.
	RouteSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics built using the Prometheus client
// library.
func PrometheusMetrics(namespace string) *Metrics {
	return &Metrics{
		ProcessedTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "processed_txs",
			Help:      "Number of transactions applied and committed.",
		}, []string{}),
		FailedTxs: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "failed_txs",
			Help:      "Number of transactions rejected.",
		}, []string{}),
		RouteSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "route_seconds",
			Help:      "Route execution time in seconds.",
			Buckets:   stdprometheus.ExponentialBuckets(0.00001, 10, 7),
		}, []string{"kind"}),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		ProcessedTxs: discard.NewCounter(),
		FailedTxs:    discard.NewCounter(),
		RouteSeconds: discard.NewHistogram(),
	}
}
