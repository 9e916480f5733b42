// Package metrics records the outcome of a training run in a Prometheus
// registry that can be dumped as a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Run struct {
	Algorithm       string
	RowsLoaded      int
	RowsSkipped     int
	VocabularySize  int
	TrainSize       int
	HoldoutSize     int
	HoldoutAccuracy float64
	Duration        time.Duration
	Finished        time.Time
}

type TrainingMetrics struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	rowsLoaded      prometheus.Gauge
	rowsSkipped     prometheus.Gauge
	vocabularySize  prometheus.Gauge
	partitionSize   *prometheus.GaugeVec
	holdoutAccuracy *prometheus.GaugeVec
	duration        prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

func NewTrainingMetrics() *TrainingMetrics {
	m := &TrainingMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phishunt_training_runs_total",
			Help: "Training runs by outcome",
		}, []string{"outcome"}),
		rowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phishunt_dataset_rows",
			Help: "Usable dataset rows in the last run",
		}),
		rowsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phishunt_dataset_rows_skipped",
			Help: "Malformed dataset rows skipped in the last run",
		}),
		vocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phishunt_vocabulary_size",
			Help: "Distinct tokens in the fitted vocabulary",
		}),
		partitionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "phishunt_partition_rows",
			Help: "Rows per partition in the last run",
		}, []string{"partition"}),
		holdoutAccuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "phishunt_holdout_accuracy",
			Help: "Accuracy on the holdout partition",
		}, []string{"algorithm"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phishunt_training_duration_seconds",
			Help: "Wall time of the last training run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phishunt_training_last_success_timestamp_seconds",
			Help: "Unix time of the last successful training run",
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.rowsLoaded,
		m.rowsSkipped,
		m.vocabularySize,
		m.partitionSize,
		m.holdoutAccuracy,
		m.duration,
		m.lastSuccess,
	)

	return m
}

func (m *TrainingMetrics) ObserveSuccess(run Run) {
	m.runs.WithLabelValues("success").Inc()
	m.rowsLoaded.Set(float64(run.RowsLoaded))
	m.rowsSkipped.Set(float64(run.RowsSkipped))
	m.vocabularySize.Set(float64(run.VocabularySize))
	m.partitionSize.WithLabelValues("train").Set(float64(run.TrainSize))
	m.partitionSize.WithLabelValues("holdout").Set(float64(run.HoldoutSize))
	m.holdoutAccuracy.WithLabelValues(run.Algorithm).Set(run.HoldoutAccuracy)
	m.duration.Set(run.Duration.Seconds())
	m.lastSuccess.Set(float64(run.Finished.Unix()))
}

func (m *TrainingMetrics) ObserveFailure() {
	m.runs.WithLabelValues("failure").Inc()
}

// WriteTextfile atomically replaces path with the current metric values.
func (m *TrainingMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
