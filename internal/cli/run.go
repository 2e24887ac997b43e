package cli

import (
	"context"
	"os"
	"time"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/dump"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
)

// Execute implements the go-flags Commander interface for RunCommand.
// It sequences the full pipeline for one bucket. Every stage is
// idempotent, so re-running after a partial failure resumes from the
// first incomplete stage without redoing finished work.
func (c *RunCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	b, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	log := newLogger(cfg, c.globals)
	m := metrics.New()
	ctx := context.Background()

	stageStart := time.Now()
	fetcher := newFetcher(cfg, c.globals)
	if _, err := fetcher.Fetch(ctx, b, cfg.Data.RawDir); err != nil {
		return stageError("fetch", b, err)
	}
	m.ObserveStage("fetch", time.Since(stageStart))
	log.Info("stage complete", "stage", "fetch", "bucket", b.String(), "duration", time.Since(stageStart))

	stageStart = time.Now()
	if _, err := dump.ExtractForBucket(b, cfg.Data.RawDir, cfg.Data.ProcessedDir, log); err != nil {
		return stageError("extract", b, err)
	}
	m.ObserveStage("extract", time.Since(stageStart))
	log.Info("stage complete", "stage", "extract", "bucket", b.String(), "duration", time.Since(stageStart))

	stageStart = time.Now()
	if _, err := runFilter(cfg, c.globals, b, m); err != nil {
		return err
	}
	m.ObserveStage("filter", time.Since(stageStart))
	log.Info("stage complete", "stage", "filter", "bucket", b.String(), "duration", time.Since(stageStart))

	store, db, err := openStore(cfg)
	if err != nil {
		return stageError("load", b, err)
	}
	defer db.Close()
	defer store.Close()

	stageStart = time.Now()
	if _, err := runLoad(cfg, c.globals, b, store, m); err != nil {
		return err
	}
	m.ObserveStage("load", time.Since(stageStart))
	log.Info("stage complete", "stage", "load", "bucket", b.String(), "duration", time.Since(stageStart))

	stageStart = time.Now()
	summary, err := store.Summarize(ctx, b.Time(), b.Time())
	if err != nil {
		return stageError("summarize", b, err)
	}
	m.ObserveStage("summarize", time.Since(stageStart))
	log.Info("stage complete", "stage", "summarize", "bucket", b.String(), "duration", time.Since(stageStart))

	if err := flushMetrics(c.globals, m); err != nil {
		return stageError("summarize", b, err)
	}

	if c.globals != nil && c.globals.JSON {
		return printSummaryJSON(summary)
	}
	printSummaryTable(os.Stdout, summary)
	return nil
}
