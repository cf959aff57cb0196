package api

import (
	"net/http"

	"github.com/ksysoev/rulebook/pkg/api/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rulebook_http_request_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "code", "method"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rulebook_sessions_active",
		Help: "Number of live viewer sessions.",
	})

	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rulebook_sessions_created_total",
		Help: "Total number of viewer sessions created.",
	})
)

// withMetrics records the duration and status of the requests to a route.
func withMetrics(route string) middleware.Middleware {
	observer := requestDuration.MustCurryWith(prometheus.Labels{"route": route})

	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(observer, next)
	}
}
