// Package metrics bundles Prometheus collectors for the pipeline.
package metrics

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds all pipeline collectors on a dedicated registry.
// Methods are safe to call on a nil receiver so stages can run
// without instrumentation.
type Metrics struct {
	Registry          *prometheus.Registry
	LinesScannedTotal prometheus.Counter
	LinesMalformed    prometheus.Counter
	RecordsMatched    prometheus.Counter
	RowsUpsertedTotal prometheus.Counter
	StageDurationHist *prometheus.HistogramVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	linesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_lines_scanned_total",
		Help: "Total dump lines scanned by the filter stage.",
	})
	linesMalformed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_lines_malformed_total",
		Help: "Total dump lines skipped as malformed.",
	})
	recordsMatched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_records_matched_total",
		Help: "Total records matched to a tracked company.",
	})
	rowsUpserted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_rows_upserted_total",
		Help: "Total rows inserted or updated by the load stage.",
	})
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pageviews_stage_duration_seconds",
			Help:    "Wall-clock duration of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"stage"},
	)

	registry.MustRegister(linesScanned, linesMalformed, recordsMatched, rowsUpserted, stageDuration)

	return &Metrics{
		Registry:          registry,
		LinesScannedTotal: linesScanned,
		LinesMalformed:    linesMalformed,
		RecordsMatched:    recordsMatched,
		RowsUpsertedTotal: rowsUpserted,
		StageDurationHist: stageDuration,
	}
}

// AddLinesScanned adds n to the scanned-lines counter.
func (m *Metrics) AddLinesScanned(n int64) {
	if m == nil {
		return
	}
	m.LinesScannedTotal.Add(float64(n))
}

// IncMalformed increments the malformed-lines counter.
func (m *Metrics) IncMalformed() {
	if m == nil {
		return
	}
	m.LinesMalformed.Inc()
}

// IncMatched increments the matched-records counter.
func (m *Metrics) IncMatched() {
	if m == nil {
		return
	}
	m.RecordsMatched.Inc()
}

// AddRowsUpserted adds n to the upserted-rows counter.
func (m *Metrics) AddRowsUpserted(n int64) {
	if m == nil {
		return
	}
	m.RowsUpsertedTotal.Add(float64(n))
}

// ObserveStage records the duration of one stage run.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDurationHist.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextFile gathers all collectors and writes them to path in the
// Prometheus text exposition format, so a batch invocation can hand its
// counters to a node-exporter textfile collector or a log shipper.
func (m *Metrics) WriteTextFile(path string) (err error) {
	if m == nil {
		return nil
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close metrics file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("write metrics file: %w", err)
		}
	}
	return nil
}
