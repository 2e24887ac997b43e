package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAccumulate(t *testing.T) {
	m := New()

	m.AddLinesScanned(100)
	m.AddLinesScanned(50)
	m.IncMalformed()
	m.IncMatched()
	m.IncMatched()
	m.AddRowsUpserted(7)

	assert.Equal(t, 150.0, testutil.ToFloat64(m.LinesScannedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesMalformed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsMatched))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RowsUpsertedTotal))
}

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("filter", 2*time.Second)

	count := testutil.CollectAndCount(m.StageDurationHist, "pageviews_stage_duration_seconds")
	assert.Equal(t, 1, count)
}

func TestWriteTextFile(t *testing.T) {
	m := New()
	m.AddLinesScanned(150)
	m.IncMatched()
	m.ObserveStage("filter", time.Second)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.WriteTextFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "pageviews_lines_scanned_total 150")
	assert.Contains(t, out, "pageviews_records_matched_total 1")
	assert.Contains(t, out, `pageviews_stage_duration_seconds_count{stage="filter"} 1`)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.AddLinesScanned(1)
		m.IncMalformed()
		m.IncMatched()
		m.AddRowsUpserted(1)
		m.ObserveStage("load", time.Second)
	})

	// A nil receiver writes nothing rather than an empty file.
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.WriteTextFile(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
