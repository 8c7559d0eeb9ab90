package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rowsEmitted  *prometheus.CounterVec
	countries    prometheus.Gauge
	observations prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "energydash",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energydash",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "energydash",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"method", "path"}),
		rowsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "energydash",
			Subsystem: "reshape",
			Name:      "rows_total",
			Help:      "Rows returned per view and output kind.",
		}, []string{"view", "kind"}),
		countries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "countries",
			Help:      "Countries in the loaded dataset.",
		}),
		observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "energydash",
			Subsystem: "dataset",
			Name:      "observations",
			Help:      "Yearly observations in the loaded dataset.",
		}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.rowsEmitted,
		m.countries,
		m.observations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}
			start := time.Now()
			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := strings.ToUpper(c.Request().Method)
			status := strconv.Itoa(c.Response().Status)
			m.httpRequests.WithLabelValues(method, path, status).Inc()
			m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordRows counts rows served for a view; kind is "chart" or "table".
func (m *Metrics) RecordRows(view, kind string, n int) {
	m.rowsEmitted.WithLabelValues(view, kind).Add(float64(n))
}

// SetDataset publishes the size of the loaded dataset.
func (m *Metrics) SetDataset(countries, observations int) {
	m.countries.Set(float64(countries))
	m.observations.Set(float64(observations))
}
