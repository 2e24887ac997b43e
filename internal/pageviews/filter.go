package pageviews

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/companies"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
)

// maxLineBytes bounds a single dump line. Page titles are long but
// nowhere near this; anything larger is a corrupt line.
const maxLineBytes = 1 << 20

// Filter streams a decompressed dump and extracts the records that
// belong to tracked company pages.
type Filter struct {
	// Domain restricts matching to one Wikipedia edition, e.g. "en".
	Domain string
	// ProgressInterval is the line count between progress log entries.
	ProgressInterval int64
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Run scans inputPath line by line and writes every record whose
// domain matches and whose page title resolves to a company in dir to
// a CSV artifact at outputPath. The artifact is written even when
// nothing matches, so reruns can tell a completed filter from one that
// never ran. If outputPath already exists, the scan is skipped
// entirely and the existing path is returned.
//
// Memory is bounded by the number of matches, never by the input size.
func (f *Filter) Run(inputPath, outputPath string, dir *companies.Directory) (string, error) {
	log := f.logger()

	if info, err := os.Stat(outputPath); err == nil {
		log.Info("filtered file already exists, skipping scan",
			"path", outputPath, "size_bytes", info.Size())
		return outputPath, nil
	}

	in, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &InputNotFoundError{Path: inputPath}
		}
		return "", fmt.Errorf("open dump: %w", err)
	}
	defer in.Close()

	log.Info("filtering pageviews", "input", inputPath, "domain", f.Domain, "companies", dir.Len())

	interval := f.ProgressInterval
	if interval <= 0 {
		interval = 1_000_000
	}

	var (
		totalLines int64
		malformed  int64
		matched    []FilteredRecord
	)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		totalLines++
		if totalLines%interval == 0 {
			log.Info("scan progress", "lines", totalLines, "matches", len(matched))
		}

		record, ok := ParseLine(scanner.Text())
		if !ok {
			malformed++
			f.Metrics.IncMalformed()
			continue
		}

		if record.Domain != f.Domain {
			continue
		}

		company, ok := dir.CompanyFor(record.PageTitle)
		if !ok {
			continue
		}

		matched = append(matched, FilteredRecord{
			Company:   company,
			PageTitle: record.PageTitle,
			ViewCount: record.ViewCount,
			Domain:    record.Domain,
		})
		f.Metrics.IncMatched()
	}
	f.Metrics.AddLinesScanned(totalLines)

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan dump: %w", err)
	}

	log.Info("filtering complete",
		"lines", totalLines, "malformed", malformed, "matches", len(matched))

	if err := WriteFiltered(outputPath, matched); err != nil {
		return "", err
	}

	log.Info("saved filtered records", "path", outputPath)
	return outputPath, nil
}

func (f *Filter) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
