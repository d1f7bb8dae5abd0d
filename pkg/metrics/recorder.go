package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder handles metrics recording and exposure
type Recorder struct {
	// API metrics
	apiRequestCounter   *prometheus.CounterVec
	apiLatencyHistogram *prometheus.HistogramVec

	// Calculation metrics
	calcCounter        *prometheus.CounterVec
	calcLatency        *prometheus.HistogramVec
	calcFailureCounter *prometheus.CounterVec

	// Capital metrics
	rwaGauge          *prometheus.GaugeVec
	capitalRatioGauge *prometheus.GaugeVec
	breachCounter     *prometheus.CounterVec

	// Stress metrics
	stressRunCounter *prometheus.CounterVec
	stressRunLatency *prometheus.HistogramVec

	// Kafka metrics
	kafkaPublishCounter *prometheus.CounterVec
}

// NewRecorder creates a new metrics recorder
func NewRecorder() *Recorder {
	return &Recorder{
		apiRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_api_requests_total",
				Help: "The total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		apiLatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "basel_api_latency_seconds",
				Help:    "API request latency distribution",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // From 1ms to ~16s
			},
			[]string{"method", "path"},
		),

		calcCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_calculations_total",
				Help: "The total number of capital calculations",
			},
			[]string{"portfolio_id"},
		),
		calcLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "basel_calculation_latency_seconds",
				Help:    "Capital calculation latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"portfolio_id"},
		),
		calcFailureCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_calculation_failures_total",
				Help: "Calculation failures by error type",
			},
			[]string{"error_type"},
		),

		rwaGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "basel_rwa",
				Help: "Latest risk-weighted assets by risk type",
			},
			[]string{"portfolio_id", "risk_type"},
		),
		capitalRatioGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "basel_capital_ratio",
				Help: "Latest capital ratios",
			},
			[]string{"portfolio_id", "ratio"},
		),
		breachCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_buffer_breaches_total",
				Help: "Buffer breaches observed in calculations",
			},
			[]string{"portfolio_id", "ratio"},
		),

		stressRunCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_stress_runs_total",
				Help: "The total number of stress scenario runs",
			},
			[]string{"scenario"},
		),
		stressRunLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "basel_stress_run_latency_seconds",
				Help:    "Stress run latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"scenario"},
		),

		kafkaPublishCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basel_kafka_publishes_total",
				Help: "Results published to Kafka",
			},
			[]string{"topic", "status"},
		),
	}
}

// RecordAPIRequest records metrics for an API request
func (r *Recorder) RecordAPIRequest(method, path string, status int, latency time.Duration) {
	statusStr := strconv.Itoa(status)
	r.apiRequestCounter.WithLabelValues(method, path, statusStr).Inc()
	r.apiLatencyHistogram.WithLabelValues(method, path).Observe(latency.Seconds())
}

// RecordCalculation records one completed capital calculation.
func (r *Recorder) RecordCalculation(portfolioID string, latency time.Duration) {
	r.calcCounter.WithLabelValues(portfolioID).Inc()
	r.calcLatency.WithLabelValues(portfolioID).Observe(latency.Seconds())
}

// RecordCalculationFailure records a failed calculation by error type.
func (r *Recorder) RecordCalculationFailure(errorType string) {
	r.calcFailureCounter.WithLabelValues(errorType).Inc()
}

// RecordRWA records the latest RWA figure for one risk type.
func (r *Recorder) RecordRWA(portfolioID, riskType string, value float64) {
	r.rwaGauge.WithLabelValues(portfolioID, riskType).Set(value)
}

// RecordCapitalRatio records one of the latest capital ratios.
func (r *Recorder) RecordCapitalRatio(portfolioID, ratio string, value float64) {
	r.capitalRatioGauge.WithLabelValues(portfolioID, ratio).Set(value)
}

// RecordBufferBreach counts one observed buffer breach.
func (r *Recorder) RecordBufferBreach(portfolioID, ratio string) {
	r.breachCounter.WithLabelValues(portfolioID, ratio).Inc()
}

// RecordStressRun records one completed stress scenario run.
func (r *Recorder) RecordStressRun(scenario string, latency time.Duration) {
	r.stressRunCounter.WithLabelValues(scenario).Inc()
	r.stressRunLatency.WithLabelValues(scenario).Observe(latency.Seconds())
}

// RecordKafkaPublish records one Kafka publish attempt.
func (r *Recorder) RecordKafkaPublish(topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.kafkaPublishCounter.WithLabelValues(topic, status).Inc()
}
