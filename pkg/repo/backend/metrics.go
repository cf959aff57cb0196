package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rulebook_backend_fetch_seconds",
		Help:    "Time spent fetching from the rulebook backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rulebook_backend_fetch_errors_total",
		Help: "Total number of failed requests to the rulebook backend.",
	}, []string{"endpoint"})
)
