package cli

import (
	"github.com/Feyiarmstrong/pageview-pipeline/internal/dump"
)

// Execute implements the go-flags Commander interface for ExtractCommand.
func (c *ExtractCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	b, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	path, err := dump.ExtractForBucket(b, cfg.Data.RawDir, cfg.Data.ProcessedDir, newLogger(cfg, c.globals))
	if err != nil {
		return stageError("extract", b, err)
	}

	return printArtifact(c.globals, "extract", path)
}
