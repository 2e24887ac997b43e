package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/config"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/pageviews"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/storage"
)

// Execute implements the go-flags Commander interface for LoadCommand.
func (c *LoadCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	b, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return stageError("load", b, err)
	}
	defer db.Close()
	defer store.Close()

	m := metrics.New()
	rows, err := runLoad(cfg, c.globals, b, store, m)
	if err != nil {
		return err
	}
	if err := flushMetrics(c.globals, m); err != nil {
		return stageError("load", b, err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"stage": "load", "bucket": b.String(), "rows_affected": rows})
	}
	fmt.Printf("Loaded %d rows for bucket %s\n", rows, b)
	return nil
}

// runLoad reads the bucket's filtered artifact and upserts it. Shared
// with the run command.
func runLoad(cfg *config.Config, globals *GlobalFlags, b bucket.Bucket, store *storage.SQLiteStore, m *metrics.Metrics) (int64, error) {
	csvPath := filepath.Join(cfg.Data.ProcessedDir, b.FilteredFilename())

	records, err := pageviews.ReadFiltered(csvPath)
	if err != nil {
		return 0, stageError("load", b, err)
	}

	store.Metrics = m
	store.Logger = newLogger(cfg, globals)

	rows, err := store.Upsert(context.Background(), records, b.Time())
	if err != nil {
		return 0, stageError("load", b, err)
	}
	return rows, nil
}
