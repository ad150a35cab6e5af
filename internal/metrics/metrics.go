// Package metrics defines Prometheus metrics for blastview.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blastview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blastview_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blastview_errors_total",
			Help: "Total error responses by type",
		},
		[]string{"type"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blastview_analyses_total",
			Help: "Analysis attempts by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blastview_analysis_duration_seconds",
			Help:    "Round trip to the analysis service in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	RenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blastview_render_duration_seconds",
			Help:    "Time to build a rendering from an analysis payload",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	RenderedElements = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blastview_rendered_elements",
			Help: "Graph elements in the displayed rendering",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blastview_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AnalysesTotal, AnalysisDuration, RenderDuration,
		RenderedElements, WSConnections,
	)
}
