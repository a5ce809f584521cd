// Package metric records term set build metrics with Prometheus and writes
// them in the text exposition format for node_exporter's textfile collector.
package metric

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "termset"

// Metrics holds the build metrics of one process.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead       *prometheus.CounterVec
	TermsWritten   *prometheus.CounterVec
	SynonymTerms   *prometheus.CounterVec
	MappedTerms    *prometheus.CounterVec
	BuildsTotal    *prometheus.CounterVec
	BuildDuration  *prometheus.HistogramVec
	LastBuildEpoch *prometheus.GaugeVec
}

// New creates metrics registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RowsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "rows_read_total",
				Help:      "Total number of source rows transformed",
			},
			[]string{"vocabulary"},
		),

		TermsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "output",
				Name:      "terms_written_total",
				Help:      "Total number of preferred terms written to the Terms section",
			},
			[]string{"vocabulary"},
		),

		SynonymTerms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "transform",
				Name:      "synonym_terms_total",
				Help:      "Total number of synonym terms built from synonym lists",
			},
			[]string{"vocabulary"},
		),

		MappedTerms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "transform",
				Name:      "mapped_terms_total",
				Help:      "Total number of cross-mapped terms built from an external vocabulary",
			},
			[]string{"vocabulary", "mapping"},
		),

		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Total number of builds by status",
			},
			[]string{"vocabulary", "status"},
		),

		BuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "duration_seconds",
				Help:      "Build duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"vocabulary"},
		),

		LastBuildEpoch: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "build",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful build",
			},
			[]string{"vocabulary"},
		),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.TermsWritten,
		m.SynonymTerms,
		m.MappedTerms,
		m.BuildsTotal,
		m.BuildDuration,
		m.LastBuildEpoch,
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Build is the outcome of one build.
type Build struct {
	Vocabulary   string
	Mapping      string
	Rows         int
	Terms        int
	SynonymTerms int
	MappedTerms  int
	Duration     time.Duration
	Err          error
	FinishedAt   time.Time
}

// ObserveBuild records a build outcome.
func (m *Metrics) ObserveBuild(b Build) {
	if m == nil {
		return
	}

	status := "success"
	if b.Err != nil {
		status = "failure"
	}
	m.BuildsTotal.WithLabelValues(b.Vocabulary, status).Inc()
	m.BuildDuration.WithLabelValues(b.Vocabulary).Observe(b.Duration.Seconds())
	m.RowsRead.WithLabelValues(b.Vocabulary).Add(float64(b.Rows))
	m.SynonymTerms.WithLabelValues(b.Vocabulary).Add(float64(b.SynonymTerms))
	if b.Mapping != "" {
		m.MappedTerms.WithLabelValues(b.Vocabulary, b.Mapping).Add(float64(b.MappedTerms))
	}

	if b.Err == nil {
		m.TermsWritten.WithLabelValues(b.Vocabulary).Add(float64(b.Terms))
		m.LastBuildEpoch.WithLabelValues(b.Vocabulary).Set(float64(b.FinishedAt.Unix()))
	}
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
