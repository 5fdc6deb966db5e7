package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons for EventsDropped.
const (
	DropCircuitOpen = "circuit_open"
	DropMalformed   = "malformed"
)

// Metrics holds the process-wide Prometheus metrics: HTTP latency and the
// event side channel.
type Metrics struct {
	EventsPublished       *prometheus.CounterVec
	EventsPublishFailures *prometheus.CounterVec
	EventsDropped         *prometheus.CounterVec
	EventsConsumed        *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credito_events_published_total",
			Help: "Total number of credit events handed to the broker",
		}, []string{"topic", "type"}),
		EventsPublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credito_events_publish_failures_total",
			Help: "Total number of credit events the broker rejected",
		}, []string{"topic"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credito_events_dropped_total",
			Help: "Total number of credit events dropped without a publish attempt",
		}, []string{"reason"}),
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credito_events_consumed_total",
			Help: "Total number of credit events consumed",
		}, []string{"topic"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credito_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncrementEventsPublished(topic, eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(topic, eventType).Inc()
}

func (m *Metrics) IncrementPublishFailures(topic string) {
	if m == nil {
		return
	}
	m.EventsPublishFailures.WithLabelValues(topic).Inc()
}

func (m *Metrics) IncrementEventsDropped(reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementEventsConsumed(topic string) {
	if m == nil {
		return
	}
	m.EventsConsumed.WithLabelValues(topic).Inc()
}

// ObserveHTTPRequest records one request. route is the chi route pattern so
// path parameters do not explode cardinality.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
