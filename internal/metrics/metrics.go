// Package metrics provides Prometheus instrumentation for Litnet API traffic.
// It counts requests by endpoint and status code and records request latency.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// endpointSegments is how many leading path segments label an endpoint.
// "book/get/42" is reported as "book/get" to keep label cardinality bounded.
const endpointSegments = 2

// Collector records request metrics. It implements litnet.RequestObserver.
type Collector struct {
	registry *prometheus.Registry

	// RequestsTotal counts completed requests, labeled by endpoint and code.
	// code is "error" when no response was received.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration records round-trip latency in seconds.
	RequestDuration *prometheus.HistogramVec

	// RecordsWritten counts records written to a dataset sink.
	RecordsWritten *prometheus.CounterVec
}

// NewCollector creates a collector registered on its own registry.
func NewCollector() *Collector {
	collector := &Collector{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "litnet_requests_total",
			Help: "Total number of Litnet API requests",
		}, []string{"endpoint", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "litnet_request_duration_seconds",
			Help:    "Litnet API request latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		RecordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "litnet_records_written_total",
			Help: "Total number of records written to a dataset sink",
		}, []string{"sink"}),
	}

	collector.registry.MustRegister(
		collector.RequestsTotal,
		collector.RequestDuration,
		collector.RecordsWritten,
	)

	return collector
}

// ObserveRequest implements litnet.RequestObserver.
func (c *Collector) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	label := EndpointLabel(endpoint)

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	c.RequestsTotal.WithLabelValues(label, code).Inc()
	c.RequestDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// ObserveRecord counts a record written to sink.
func (c *Collector) ObserveRecord(sink string) {
	c.RecordsWritten.WithLabelValues(sink).Inc()
}

// Registry returns the registry the collector is registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the Prometheus metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// EndpointLabel reduces an endpoint to its leading path segments.
func EndpointLabel(endpoint string) string {
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(segments) > endpointSegments {
		segments = segments[:endpointSegments]
	}

	return strings.Join(segments, "/")
}
