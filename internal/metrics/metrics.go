package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Cases
	CasesOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cases_opened_total",
			Help: "Cases opened, by rarity of the awarded item",
		},
		[]string{"rarity"},
	)

	// Market
	MarketOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_operations_total",
			Help: "Marketplace operations by outcome",
		},
		[]string{"op", "result"}, // op: list|purchase, result: ok|<error kind>
	)

	// Best-effort transaction records that could not be written.
	RecordFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transaction_record_failures_total",
			Help: "Transaction records dropped after the mutation committed",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

var Handler = promhttp.Handler

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPLatency, CasesOpenedTotal, MarketOpsTotal, RecordFailures, WorkerQueueDepth)
	})
}
