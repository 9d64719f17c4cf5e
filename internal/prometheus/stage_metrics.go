package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "stage_duration_seconds",
		Namespace: Namespace,
		Subsystem: InstallerSubsystem,
		Help:      "Duration of an installation stage.",
		Buckets:   []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120, 300, 600, 1200, 1800, 3600},
	}, []string{"stage"})
)

var (
	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name:      "stage_failures_total",
		Namespace: Namespace,
		Subsystem: InstallerSubsystem,
		Help:      "Total number of failed installation stages.",
	}, []string{"stage"})
)

func StageObserver(stage string) ObserveFunc {
	pt := prometheus.NewTimer(StageDuration.WithLabelValues(stage))
	return pt.ObserveDuration
}

func StageFailed(stage string) {
	StageFailures.WithLabelValues(stage).Inc()
}
