package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/config"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/storage"
)

// loadConfig resolves the config file: --config when given, otherwise
// the default path (created with defaults on first use).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the stage logger. --verbose forces debug level.
func newLogger(cfg *config.Config, globals *GlobalFlags) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if globals != nil && globals.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseDate parses the --date flag into a bucket.
func parseDate(s string) (bucket.Bucket, error) {
	b, err := bucket.Parse(s)
	if err != nil {
		return bucket.Bucket{}, fmt.Errorf("--date: %w", err)
	}
	return b, nil
}

// openStore opens the configured SQLite database, runs migrations, and
// returns a ready-to-use store and the underlying *sql.DB.
func openStore(cfg *config.Config) (*storage.SQLiteStore, *sql.DB, error) {
	dir := filepath.Dir(cfg.Storage.SQLiteFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Storage.SQLiteFile)
	if err != nil {
		return nil, nil, &storage.StoreUnavailableError{Op: "open database", Err: err}
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// flushMetrics writes the collected metrics in text exposition format
// when --metrics-file is set.
func flushMetrics(globals *GlobalFlags, m *metrics.Metrics) error {
	if globals == nil || globals.MetricsFile == "" {
		return nil
	}
	if err := m.WriteTextFile(globals.MetricsFile); err != nil {
		return fmt.Errorf("flush metrics: %w", err)
	}
	return nil
}

// stageError wraps a stage failure with enough context for the
// orchestrator's retry-or-alert decision.
func stageError(stage string, b bucket.Bucket, err error) error {
	return fmt.Errorf("stage %s (bucket %s): %w", stage, b, err)
}
