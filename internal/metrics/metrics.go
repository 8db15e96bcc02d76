package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_admin_http_requests_total",
			Help: "Number of HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_admin_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DocumentWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_admin_document_writes_total",
			Help: "Number of catalog document writes by document kind.",
		},
		[]string{"kind"},
	)
)
