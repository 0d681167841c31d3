// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service owns a private registry and the collectors registered on it.
// A nil *Service is valid and records nothing.
type Service struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	enrichedRooms    prometheus.Histogram
}

// NewService registers the collectors
func NewService() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opendata_request_duration_seconds",
		Help:    "Duration of OpenData API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opendata_requests_total",
		Help: "Total number of OpenData API calls by status, 0 meaning no response",
	}, []string{"endpoint", "status"})

	enrichedRooms := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "freespace_rooms",
		Help:    "Number of rooms enriched per free space request",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, upstreamTotal, enrichedRooms, goroutines)

	return &Service{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		enrichedRooms:    enrichedRooms,
	}
}

// Handler exposes the Prometheus HTTP handler
func (m *Service) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request. path should be the route
// pattern, not the raw URL.
func (m *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstream records one reservation API call
func (m *Service) ObserveUpstream(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	m.upstreamTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveFreeSpace records how many rooms one request enriched
func (m *Service) ObserveFreeSpace(rooms int) {
	if m == nil {
		return
	}
	m.enrichedRooms.Observe(float64(rooms))
}
