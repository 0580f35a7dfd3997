package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		analysisRequestsTotal,
		analysisLatencyMs,
		analysisUploadBytes,
		analysisRejectionsTotal,
	)
}

var (
	analysisRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Analysis submissions per pipeline and success flag.",
		},
		[]string{"type", "success"},
	)

	analysisLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_latency_ms",
			Help:    "Upload-to-result latency distribution in milliseconds.",
			Buckets: []float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		},
		[]string{"type"},
	)

	analysisUploadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_upload_bytes",
			Help:    "Size distribution of submitted media files.",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 10),
		},
		[]string{"type"},
	)

	analysisRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_rejections_total",
			Help: "Local selection rejections (unsupported_media/file_too_large).",
		},
		[]string{"reason"},
	)
)

func ObserveAnalysis(analysisType string, success bool, latencyMs int64, sizeBytes int64) {
	analysisRequestsTotal.WithLabelValues(norm(analysisType), strconv.FormatBool(success)).Inc()
	analysisLatencyMs.WithLabelValues(norm(analysisType)).Observe(float64(latencyMs))
	analysisUploadBytes.WithLabelValues(norm(analysisType)).Observe(float64(sizeBytes))
}

func IncAnalysisRejection(reason string) {
	analysisRejectionsTotal.WithLabelValues(norm(reason)).Inc()
}
