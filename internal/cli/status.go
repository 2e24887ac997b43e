package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version      string             `json:"version"`
	DatabasePath string             `json:"database_path"`
	TotalRows    int64              `json:"total_rows"`
	Companies    int64              `json:"companies"`
	OldestBucket string             `json:"oldest_bucket,omitempty"`
	NewestBucket string             `json:"newest_bucket,omitempty"`
	TopCompanies []companyTotalJSON `json:"top_companies"`
}

type companyTotalJSON struct {
	Company    string `json:"company"`
	TotalViews int64  `json:"total_views"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, cfg.Storage.SQLiteFile)
	}
	return c.printStatusHuman(stats, cfg.Storage.SQLiteFile)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string) error {
	fmt.Println("Pageview Pipeline Status")
	fmt.Println("========================")
	fmt.Printf("Version:    %s\n", c.version)
	fmt.Printf("Database:   %s\n", dbPath)
	fmt.Printf("Rows:       %d\n", stats.TotalRows)
	fmt.Printf("Companies:  %d\n", stats.Companies)

	if stats.TotalRows > 0 {
		fmt.Printf("Oldest:     %s\n", stats.OldestBucket.Format(bucket.Layout))
		fmt.Printf("Newest:     %s\n", stats.NewestBucket.Format(bucket.Layout))
	}

	if len(stats.TopCompanies) > 0 {
		fmt.Println()
		fmt.Println("Top Companies:")
		for _, ct := range stats.TopCompanies {
			fmt.Printf("  %-24s %d\n", ct.Company, ct.TotalViews)
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string) error {
	out := statusJSON{
		Version:      c.version,
		DatabasePath: dbPath,
		TotalRows:    stats.TotalRows,
		Companies:    stats.Companies,
		TopCompanies: make([]companyTotalJSON, len(stats.TopCompanies)),
	}

	if stats.TotalRows > 0 {
		out.OldestBucket = stats.OldestBucket.Format(bucket.Layout)
		out.NewestBucket = stats.NewestBucket.Format(bucket.Layout)
	}

	for i, ct := range stats.TopCompanies {
		out.TopCompanies[i] = companyTotalJSON{Company: ct.Company, TotalViews: ct.TotalViews}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
