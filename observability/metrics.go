package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type moduleMetrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttles *prometheus.CounterVec
}

var (
	moduleMetricsOnce sync.Once
	moduleRegistry    *moduleMetrics
)

// ModuleMetrics returns the lazily-initialised registry used to record RPC
// module activity.
func ModuleMetrics() *moduleMetrics {
	moduleMetricsOnce.Do(func() {
		moduleRegistry = &moduleMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launch",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Count of RPC requests segmented by module and method.",
			}, []string{"module", "method"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launch",
				Subsystem: "rpc",
				Name:      "errors_total",
				Help:      "Count of RPC errors segmented by module and method.",
			}, []string{"module", "method"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "launch",
				Subsystem: "rpc",
				Name:      "latency_seconds",
				Help:      "RPC handler latency segmented by module and method.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"module", "method"}),
			throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launch",
				Subsystem: "rpc",
				Name:      "throttled_total",
				Help:      "Count of rate-limited RPC requests segmented by module.",
			}, []string{"module"}),
		}
		prometheus.MustRegister(
			moduleRegistry.requests,
			moduleRegistry.errors,
			moduleRegistry.latency,
			moduleRegistry.throttles,
		)
	})
	return moduleRegistry
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "unknown"
	}
	return v
}

// ObserveRequest records one handled request and its latency.
func (m *moduleMetrics) ObserveRequest(module, method string, d time.Duration) {
	if m == nil {
		return
	}
	module = normalizeLabel(module)
	method = normalizeLabel(method)
	m.requests.WithLabelValues(module, method).Inc()
	m.latency.WithLabelValues(module, method).Observe(d.Seconds())
}

// RecordError increments the error counter for the supplied module and method.
func (m *moduleMetrics) RecordError(module, method string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(module), normalizeLabel(method)).Inc()
}

// RecordThrottle increments the throttle counter for the supplied module.
func (m *moduleMetrics) RecordThrottle(module string) {
	if m == nil {
		return
	}
	m.throttles.WithLabelValues(normalizeLabel(module)).Inc()
}
