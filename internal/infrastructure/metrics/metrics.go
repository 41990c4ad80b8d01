package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

const namespace = "feesplit"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Fee split metrics
	FeeSplits        *prometheus.CounterVec
	FeeSplitDuration *prometheus.HistogramVec
	FeeSplitAmount   prometheus.Histogram
	FeesCollected    prometheus.Counter

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	IdempotentReplays prometheus.Counter
	AuthFailures      *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Fee split metrics
		FeeSplits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fee_splits_total",
				Help:      "Fee-split transfers by outcome",
			},
			[]string{"outcome"},
		),
		FeeSplitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fee_split_duration_seconds",
				Help:      "Duration of fee-split transfers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		FeeSplitAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fee_split_amount_base_units",
			Help:      "Gross amounts of successful fee splits",
			Buckets:   prometheus.ExponentialBuckets(1, 100, 10),
		}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_collected_base_units_total",
			Help:      "Fees credited to fee collectors",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Requests answered from the idempotency store",
		}),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_events_total",
				Help:      "Outbox events handed to the broker by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveFeeSplit implements usecase.Metrics.
func (m *Metrics) ObserveFeeSplit(outcome string, split domain.Split, duration time.Duration) {
	m.FeeSplits.WithLabelValues(outcome).Inc()
	m.FeeSplitDuration.WithLabelValues(outcome).Observe(duration.Seconds())

	if outcome != domain.KindOK {
		return
	}

	m.FeeSplitAmount.Observe(float64(split.Amount))
	m.FeesCollected.Add(float64(split.Fee))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveIdempotentReplay counts a request served from a stored response.
func (m *Metrics) ObserveIdempotentReplay() {
	m.IdempotentReplays.Inc()
}

// ObserveAuthFailure counts a rejected credential.
func (m *Metrics) ObserveAuthFailure(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// ObserveOutboxPublish counts an outbox event publish attempt.
func (m *Metrics) ObserveOutboxPublish(outcome string) {
	m.OutboxPublished.WithLabelValues(outcome).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
