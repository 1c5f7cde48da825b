// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_submissions_started_total",
			Help: "Total number of application submissions started",
		},
	)

	SubmissionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_completed_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "intake_submission_duration_seconds",
			Help: "Duration of the submission pipeline in seconds",
		},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_upload_bytes_total",
			Help: "Total multipart bytes sent to the backend",
		},
	)

	DraftWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_draft_writes_total",
			Help: "Total draft saves by outcome",
		},
		[]string{"outcome"},
	)

	SearchFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_search_fetches_total",
			Help: "Total profile search fetches by outcome",
		},
		[]string{"outcome"},
	)

	RecordingsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_recordings_active",
			Help: "Number of recording sessions currently capturing",
		},
	)

	RecordingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_recording_duration_seconds",
			Help:    "Duration of finalized recordings in seconds",
			Buckets: prometheus.LinearBuckets(5, 5, 12),
		},
	)
)
