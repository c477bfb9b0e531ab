package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tradesApplied  *prometheus.CounterVec
	tradesRejected *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	composite      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tradesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_trades_applied_total",
				Help: "Total number of trades committed to the ledger",
			},
			[]string{"action", "symbol"},
		),
		tradesRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_trades_rejected_total",
				Help: "Total number of trade submissions rejected before commit",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksense_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksense_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		composite: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksense_sentiment_composite",
				Help: "Latest composite sentiment score for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksense_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTradeApplied records a committed trade.
func (r *Recorder) RecordTradeApplied(action, symbol string) {
	r.tradesApplied.WithLabelValues(action, symbol).Inc()
}

// RecordTradeRejected records a rejected trade submission.
func (r *Recorder) RecordTradeRejected(reason string) {
	r.tradesRejected.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordComposite records the latest composite sentiment for a symbol.
func (r *Recorder) RecordComposite(symbol string, value float64) {
	r.composite.WithLabelValues(symbol).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
