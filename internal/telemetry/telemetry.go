package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/metrics"
	"github.com/pulse-lab/pulse/internal/core/quota"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

const namespace = "pulse"

// knownEvents bounds the event_name label; anything else is reported as "other".
var knownEvents = map[string]struct{}{
	v1.EventFirstVisit:        {},
	v1.EventSessionStart:      {},
	v1.EventQRScan:            {},
	v1.EventPostCreated:       {},
	v1.EventSharePost:         {},
	v1.EventFeedbackSubmitted: {},
}

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	quotaDecisions      *prometheus.CounterVec
	eventAppends        *prometheus.CounterVec
	eventQueryDuration  prometheus.Histogram
	aggregationDuration prometheus.Histogram
	eventsConsidered    prometheus.Gauge
	eventsSkipped       prometheus.Gauge
}

// New registers all collectors plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		quotaDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_decisions_total",
			Help:      "Quota decisions by policy and outcome.",
		}, []string{"policy", "outcome"}),
		eventAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_appends_total",
			Help:      "Event log appends by event name and outcome.",
		}, []string{"event_name", "outcome"}),
		eventQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_query_duration_seconds",
			Help:      "Event log query duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Dashboard snapshot computation duration in seconds, input fetch included.",
			Buckets:   prometheus.DefBuckets,
		}),
		eventsConsidered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_events_considered",
			Help:      "Well-formed events in the last computed snapshot.",
		}),
		eventsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_events_skipped",
			Help:      "Malformed events skipped by the last computed snapshot.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.quotaDecisions,
		m.eventAppends,
		m.eventQueryDuration,
		m.aggregationDuration,
		m.eventsConsidered,
		m.eventsSkipped,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveDecision implements quota.Observer.
func (m *Metrics) ObserveDecision(d quota.Decision) {
	outcome := "allowed"
	if !d.Allowed {
		outcome = "denied"
	}
	m.quotaDecisions.WithLabelValues(string(d.Policy), outcome).Inc()
}

// ObserveSnapshot records how long a snapshot took and the size of its working set.
func (m *Metrics) ObserveSnapshot(elapsed time.Duration, s metrics.Snapshot) {
	m.aggregationDuration.Observe(elapsed.Seconds())
	m.eventsConsidered.Set(float64(s.EventsConsidered))
	m.eventsSkipped.Set(float64(s.EventsSkipped))
}

// InstrumentEventStore wraps store so appends and queries are counted and timed.
func (m *Metrics) InstrumentEventStore(store storage.EventStore) storage.EventStore {
	return &instrumentedEventStore{next: store, m: m}
}

type instrumentedEventStore struct {
	next storage.EventStore
	m    *Metrics
}

func (s *instrumentedEventStore) AppendEvent(ctx context.Context, event *v1.Event) error {
	err := s.next.AppendEvent(ctx, event)
	s.m.eventAppends.WithLabelValues(eventLabel(event.EventName), outcomeLabel(err)).Inc()
	return err
}

func (s *instrumentedEventStore) QueryEvents(ctx context.Context, q storage.EventQuery) ([]*v1.Event, error) {
	start := time.Now()
	events, err := s.next.QueryEvents(ctx, q)
	s.m.eventQueryDuration.Observe(time.Since(start).Seconds())
	return events, err
}

func eventLabel(name string) string {
	if _, ok := knownEvents[name]; ok {
		return name
	}
	return "other"
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
