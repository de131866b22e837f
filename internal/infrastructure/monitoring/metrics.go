package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/xhr/internal/xhr"
)

// Outcome labels for client requests
const (
	OutcomeOK          = "ok"
	OutcomeHTTPError   = "http_error"
	OutcomeUnreachable = "unreachable"
)

// Metrics holds all Prometheus metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// Echo server metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Request client metrics
	ClientRequests *prometheus.CounterVec
	ClientDuration *prometheus.HistogramVec
}

var _ xhr.Recorder = (*Metrics)(nil)

// NewMetrics creates a new metrics collector with Go and process collectors attached
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newMetrics(reg)
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xhr_echo_http_requests_total",
				Help: "Total number of HTTP requests served by the echo server",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xhr_echo_http_request_duration_seconds",
				Help:    "Echo server request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xhr_echo_http_response_size_bytes",
				Help:    "Echo server response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		ClientRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xhr_client_requests_total",
				Help: "Total number of completed client requests",
			},
			[]string{"method", "format", "outcome"},
		),
		ClientDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xhr_client_request_duration_seconds",
				Help:    "Client request duration from send to completion in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration, respSize int) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize > 0 {
		m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

// RecordRequest records one completed client request
func (m *Metrics) RecordRequest(method string, status int, format xhr.Format, err error, duration time.Duration) {
	m.ClientRequests.WithLabelValues(method, string(format), outcome(status, err)).Inc()
	m.ClientDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func outcome(status int, err error) string {
	switch {
	case err != nil || status == 0:
		return OutcomeUnreachable
	case status >= 400:
		return OutcomeHTTPError
	default:
		return OutcomeOK
	}
}
