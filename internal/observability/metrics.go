// Package observability exposes Prometheus metrics for the chat pipeline.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	exchangesTotal  *prometheus.CounterVec
	detectionsTotal *prometheus.CounterVec

	llmRequestDuration *prometheus.HistogramVec
	llmRetriesTotal    *prometheus.CounterVec
	llmErrorsTotal     *prometheus.CounterVec

	activeSessions prometheus.Gauge
	wsClients      prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			exchangesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "exchanges_total",
					Help: "Total chat exchanges by language and status.",
				},
				[]string{"language", "status"},
			),
			detectionsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "detections_total",
					Help: "Total language detections by result.",
				},
				[]string{"language"},
			),
			llmRequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "llm_request_duration_seconds",
					Help:    "LLM API call duration in seconds by provider.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider"},
			),
			llmRetriesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_retries_total",
					Help: "Total LLM call retries by provider.",
				},
				[]string{"provider"},
			),
			llmErrorsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_errors_total",
					Help: "Total LLM call failures by provider and kind.",
				},
				[]string{"provider", "kind"},
			),
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "active_sessions",
					Help: "Current live session count.",
				},
			),
			wsClients: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "websocket_clients",
					Help: "Currently connected web UI clients.",
				},
			),
		}

		prometheus.MustRegister(
			m.exchangesTotal,
			m.detectionsTotal,
			m.llmRequestDuration,
			m.llmRetriesTotal,
			m.llmErrorsTotal,
			m.activeSessions,
			m.wsClients,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

// MetricsHandler returns the HTTP handler serving the metrics endpoint.
func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordExchange(lang string, success bool) {
	status := "error"
	if success {
		status = "success"
	}
	getMetrics().exchangesTotal.WithLabelValues(lang, status).Inc()
}

func RecordDetection(lang string) {
	getMetrics().detectionsTotal.WithLabelValues(lang).Inc()
}

func RecordLLMRequest(provider string, duration time.Duration) {
	getMetrics().llmRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func RecordLLMRetry(provider string) {
	getMetrics().llmRetriesTotal.WithLabelValues(provider).Inc()
}

func RecordLLMError(provider, kind string) {
	getMetrics().llmErrorsTotal.WithLabelValues(provider, kind).Inc()
}

func SetActiveSessions(count int) {
	getMetrics().activeSessions.Set(float64(count))
}

func SetWebsocketClients(count int) {
	getMetrics().wsClients.Set(float64(count))
}
