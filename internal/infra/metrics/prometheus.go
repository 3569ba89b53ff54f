package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghostify_jobs_processed_total",
		Help: "Total number of ghost render jobs processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghostify_stage_duration_seconds",
		Help:    "Duration of each stage of the ghost pipeline",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	SegmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghostify_segments_created_total",
		Help: "Total number of keyframe segments produced across all jobs",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ghostify_active_workers",
		Help: "Number of currently active workers rendering jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghostify_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
