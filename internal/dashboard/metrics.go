package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors on a private registry so several
// servers (and tests) never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	LoadSeconds prometheus.Histogram
	Sessions    prometheus.Gauge
	Requests    *prometheus.CounterVec
}

// NewMetrics registers the dashboard collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperlens", Name: "cache_hits_total",
			Help: "Dataset loads served from the memo cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperlens", Name: "cache_misses_total",
			Help: "Dataset loads that read and cleaned the source.",
		}),
		LoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paperlens", Name: "load_duration_seconds",
			Help:    "Time spent loading and cleaning a source.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paperlens", Name: "sessions_active",
			Help: "Live dashboard sessions.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperlens", Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.CacheHits, m.CacheMisses, m.LoadSeconds, m.Sessions, m.Requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// instrument counts requests by chi route pattern once the handler returns.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}
