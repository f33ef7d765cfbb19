package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"launchpool/core/events"
)

type eventMetrics struct {
	emitted *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking structured module events.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "launch",
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Count of emitted module events segmented by type.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.emitted)
	})
	return eventRegistry
}

// Record increments the counter for the supplied event type.
func (m *eventMetrics) Record(eventType string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(eventType)
	if normalized == "" {
		normalized = "unknown"
	}
	m.emitted.WithLabelValues(normalized).Inc()
}

// Emitter counts every emitted event by type and optionally forwards it to a
// downstream emitter. It satisfies the events.Emitter contract so engines can
// be wired to it directly.
type Emitter struct {
	next events.Emitter
}

// NewEmitter wraps the supplied downstream emitter; nil means count only.
func NewEmitter(next events.Emitter) *Emitter {
	return &Emitter{next: next}
}

// Emit implements events.Emitter.
func (e *Emitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	Events().Record(evt.EventType())
	if e != nil && e.next != nil {
		e.next.Emit(evt)
	}
}
