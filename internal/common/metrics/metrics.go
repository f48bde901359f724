// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	IntroductionsComposed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "introductions_composed_total",
			Help: "Total number of introduction pairs composed",
		},
	)

	IntroductionsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introductions_dropped_total",
			Help: "Total number of demand records dropped, by reason",
		},
		[]string{"reason"},
	)

	IntroductionMatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "introduction_match_score",
			Help:    "Score of the selected counterparty",
			Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)

	IntroductionEmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introduction_emails_sent_total",
			Help: "Total number of introduction emails sent, by side",
		},
		[]string{"side"},
	)
)

// ObserveResult records one pipeline outcome.
func ObserveResult(composed bool, dropReason string, score float64) {
	if composed {
		IntroductionsComposed.Inc()
		IntroductionMatchScore.Observe(score)
		return
	}
	IntroductionsDropped.WithLabelValues(dropReason).Inc()
}
