package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/config"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/dump"
)

// Execute implements the go-flags Commander interface for FetchCommand.
func (c *FetchCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	b, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	fetcher := newFetcher(cfg, c.globals)
	path, err := fetcher.Fetch(context.Background(), b, cfg.Data.RawDir)
	if err != nil {
		return stageError("fetch", b, err)
	}

	return printArtifact(c.globals, "fetch", path)
}

func newFetcher(cfg *config.Config, globals *GlobalFlags) *dump.Fetcher {
	return &dump.Fetcher{
		BaseURL: cfg.Source.BaseURL,
		Client:  &http.Client{Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second},
		Logger:  newLogger(cfg, globals),
	}
}

// printArtifact reports the stage's output path.
func printArtifact(globals *GlobalFlags, stage, path string) error {
	if globals != nil && globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"stage": stage, "path": path})
	}
	fmt.Println(path)
	return nil
}
