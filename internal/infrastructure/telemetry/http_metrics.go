package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// httpDurationBuckets cover fast JSON reads up to slow statement renders
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var responseSizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000}

// HTTPMetrics holds the Prometheus collectors of the HTTP server
type HTTPMetrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	responseSize *prometheus.HistogramVec
	inFlight     prometheus.Gauge
}

// NewHTTPMetrics creates the HTTP server collectors and registers them with
// reg. A nil registerer uses the default registry.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_server_request_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_server_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: httpDurationBuckets,
			},
			[]string{"method", "route"},
		),
		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_server_response_size_bytes",
				Help:    "HTTP response body size distribution in bytes",
				Buckets: responseSizeBuckets,
			},
			[]string{"method", "route"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of currently active HTTP requests",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.responseSize, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Started marks a request as in flight
func (m *HTTPMetrics) Started() {
	m.inFlight.Inc()
}

// Finished records a completed request. route is the matched pattern, never
// the raw path.
func (m *HTTPMetrics) Finished(method, route string, status int, elapsed time.Duration, responseSize int) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if responseSize > 0 {
		m.responseSize.WithLabelValues(method, route).Observe(float64(responseSize))
	}
}
