// Package observability exposes the service's prometheus metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration observes API request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "archweb",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// ExportArtifacts counts rendered export artifacts by format and outcome.
	ExportArtifacts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archweb",
		Name:      "export_artifacts_total",
		Help:      "Export artifacts rendered, by format and outcome.",
	}, []string{"format", "outcome"})

	// MediaLookups counts storage-server media lookups by outcome.
	MediaLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archweb",
		Name:      "media_lookups_total",
		Help:      "Media descriptor lookups against the storage server, by outcome.",
	}, []string{"outcome"})

	// MediaCacheEvents counts media descriptor cache hits and misses.
	MediaCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archweb",
		Name:      "media_cache_events_total",
		Help:      "Media descriptor cache lookups, by result.",
	}, []string{"result"})
)

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
