// Package dump fetches and decompresses hourly pageview dumps. Both
// operations are idempotent by output existence and never leave a
// partial file behind on failure.
package dump

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
)

// copyChunkBytes is the buffer size for streaming downloads and
// decompression; dumps are far too large to hold in memory.
const copyChunkBytes = 8192

// Fetcher downloads hourly dumps from the upstream archive.
type Fetcher struct {
	BaseURL string
	// Client must be set; its timeout governs the whole download.
	Client *http.Client
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Fetch downloads the dump for bucket b into rawDir and returns the
// local path. If the file already exists the download is skipped.
// On any failure the partially written file is removed first.
func (f *Fetcher) Fetch(ctx context.Context, b bucket.Bucket, rawDir string) (string, error) {
	log := f.logger()

	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return "", fmt.Errorf("create raw directory: %w", err)
	}

	outputPath := filepath.Join(rawDir, b.DumpFilename())
	if info, err := os.Stat(outputPath); err == nil {
		log.Info("dump already downloaded", "path", outputPath, "size_bytes", info.Size())
		return outputPath, nil
	}

	url := b.URL(f.BaseURL)
	log.Info("downloading pageviews dump", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	written, err := writeStream(outputPath, resp.Body)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	log.Info("download complete", "path", outputPath, "size_bytes", written)
	return outputPath, nil
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// writeStream copies r to a new file at path in chunks. The file is
// removed if the copy fails at any point.
func writeStream(path string, r io.Reader) (written int64, err error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	written, err = io.CopyBuffer(out, r, make([]byte, copyChunkBytes))
	if err != nil {
		return written, fmt.Errorf("write output file: %w", err)
	}
	return written, nil
}
