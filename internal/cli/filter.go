package cli

import (
	"path/filepath"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/companies"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/config"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/pageviews"
)

// Execute implements the go-flags Commander interface for FilterCommand.
func (c *FilterCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	b, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	m := metrics.New()
	path, err := runFilter(cfg, c.globals, b, m)
	if err != nil {
		return err
	}
	if err := flushMetrics(c.globals, m); err != nil {
		return stageError("filter", b, err)
	}

	return printArtifact(c.globals, "filter", path)
}

// runFilter loads the company mapping fresh and filters the bucket's
// decompressed dump into its CSV artifact. Shared with the run command.
func runFilter(cfg *config.Config, globals *GlobalFlags, b bucket.Bucket, m *metrics.Metrics) (string, error) {
	dir, err := companies.Load(cfg.Filter.CompaniesFile)
	if err != nil {
		return "", stageError("filter", b, err)
	}

	inputPath := filepath.Join(cfg.Data.ProcessedDir, b.ExtractedFilename())
	outputPath := filepath.Join(cfg.Data.ProcessedDir, b.FilteredFilename())

	f := &pageviews.Filter{
		Domain:           cfg.Filter.Domain,
		ProgressInterval: cfg.Filter.ProgressInterval,
		Metrics:          m,
		Logger:           newLogger(cfg, globals),
	}

	path, err := f.Run(inputPath, outputPath, dir)
	if err != nil {
		return "", stageError("filter", b, err)
	}
	return path, nil
}
