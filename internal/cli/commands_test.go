package cli

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2025-12-01T12"

func TestFilterLoadSummarize_EndToEnd(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000",
		"en Acme_Corp 100 5000\n"+
			"en Globex_Corporation 250 9000\n"+
			"de Acme_Corp 999 1000\n"+
			"en Untracked_Page 10 100\n"+
			"malformed\n")

	// Filter writes the CSV artifact and prints its path.
	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate}))
	})
	csvPath := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(root, "processed", "filtered_pageviews-20251201-120000.csv"), csvPath)

	// Load reports two upserted rows.
	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))
	})
	assert.Contains(t, out, "Loaded 2 rows")

	// Loading again converges instead of duplicating.
	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))
	})
	assert.Contains(t, out, "Loaded 2 rows")

	// Summarize ranks Globex above Acme.
	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "summarize", "--date", testDate}))
	})
	assert.Contains(t, out, "Highest pageviews: Globex with 250 views")
	assert.Less(t, strings.Index(out, "Globex"), strings.Index(out, "Acme"))
}

func TestSummarize_JSONOutput(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000", "en Acme_Corp 42 5000\n")

	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate}))
	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--json", "summarize", "--date", testDate}))
	})

	var got summaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, testDate, got.From)
	require.Len(t, got.Companies, 1)
	assert.Equal(t, 1, got.Companies[0].Rank)
	assert.Equal(t, "Acme", got.Companies[0].Company)
	assert.Equal(t, int64(42), got.Companies[0].TotalViews)
}

func TestSummarize_WritesAnalysisCSV(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000",
		"en Acme_Corp 100 5000\nen Globex_Corporation 250 9000\n")

	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate}))
	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))

	analysisPath := filepath.Join(root, "company_totals.csv")
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{
			"--config", cfgPath, "summarize", "--date", testDate, "--output", analysisPath,
		}))
	})

	data, err := os.ReadFile(analysisPath)
	require.NoError(t, err)
	assert.Equal(t, "company,total_views\nGlobex,250\nAcme,100\n", string(data))
}

func TestSummarize_EmptyBucket(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "summarize", "--date", testDate}))
	})
	assert.Contains(t, out, "No data for 2025-12-01T12")
}

func TestExtractCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	rawDir := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(rawDir, 0755))
	gzFile, err := os.Create(filepath.Join(rawDir, "pageviews-20251201-120000.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(gzFile)
	_, err = gz.Write([]byte("en Acme_Corp 42 5000\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, gzFile.Close())

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "extract", "--date", testDate}))
	})

	extracted := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(root, "processed", "pageviews-20251201-120000"), extracted)

	data, err := os.ReadFile(extracted)
	require.NoError(t, err)
	assert.Equal(t, "en Acme_Corp 42 5000\n", string(data))
}

func TestExtractCommand_MissingRawDump(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	err := RunWithArgs("test", []string{"--config", cfgPath, "extract", "--date", testDate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage extract")
	assert.Contains(t, err.Error(), testDate)
}

func TestFilterCommand_MissingInputNamesStageAndBucket(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	err := RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage filter")
	assert.Contains(t, err.Error(), "input file not found")
}

func TestLoadCommand_MissingFilteredArtifact(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	err := RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage load")
}

func TestLoadCommand_EmptyFilteredSetIsNotAnError(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000", "en Nothing_Tracked 5 100\n")

	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate}))

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))
	})
	assert.Contains(t, out, "Loaded 0 rows")
}

func TestFilterCommand_WritesMetricsFile(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000",
		"en Acme_Corp 42 5000\n"+
			"broken line\n"+
			"en Untracked_Page 10 100\n")

	metricsPath := filepath.Join(root, "metrics.prom")
	captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{
			"--config", cfgPath, "--metrics-file", metricsPath, "filter", "--date", testDate,
		}))
	})

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "pageviews_lines_scanned_total 3")
	assert.Contains(t, out, "pageviews_lines_malformed_total 1")
	assert.Contains(t, out, "pageviews_records_matched_total 1")
}

func TestRunCommand_SkipsExistingArtifactsAndObservesAllStages(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)

	// A raw dump already on disk short-circuits the fetch stage, so the
	// full pipeline runs without any network access.
	rawDir := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(rawDir, 0755))
	gzFile, err := os.Create(filepath.Join(rawDir, "pageviews-20251201-120000.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(gzFile)
	_, err = gz.Write([]byte("en Acme_Corp 100 5000\nen Globex_Corporation 250 9000\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, gzFile.Close())

	metricsPath := filepath.Join(root, "metrics.prom")
	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{
			"--config", cfgPath, "--metrics-file", metricsPath, "run", "--date", testDate,
		}))
	})
	assert.Contains(t, out, "Highest pageviews: Globex with 250 views")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)

	// Every stage, summarize included, records a duration observation.
	report := string(data)
	for _, stage := range []string{"fetch", "extract", "filter", "load", "summarize"} {
		assert.Contains(t, report,
			`pageviews_stage_duration_seconds_count{stage="`+stage+`"} 1`,
			"stage %s", stage)
	}
	assert.Contains(t, report, "pageviews_rows_upserted_total 2")
}

func TestStatusCommand(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeTestConfig(t, root)
	writeTestDump(t, root, "pageviews-20251201-120000", "en Acme_Corp 42 5000\n")

	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "filter", "--date", testDate}))
	require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "load", "--date", testDate}))

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "status"}))
	})
	assert.Contains(t, out, "Rows:       1")
	assert.Contains(t, out, "Companies:  1")
	assert.Contains(t, out, "Acme")

	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--json", "status"}))
	})
	var got statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(1), got.TotalRows)
	assert.Equal(t, testDate, got.OldestBucket)
}
