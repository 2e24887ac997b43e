package dump

import (
	"compress/gzip"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/pageviews"
)

// Extract decompresses the gzip file at inputPath into processedDir
// and returns the decompressed path. Idempotent by output existence;
// a partial output is removed on failure.
func Extract(inputPath, processedDir string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return "", &pageviews.InputNotFoundError{Path: inputPath}
	}

	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return "", fmt.Errorf("create processed directory: %w", err)
	}

	name := filepath.Base(inputPath)
	outputName := strings.TrimSuffix(name, ".gz")
	if outputName == name {
		outputName = name + ".extracted"
	}
	outputPath := filepath.Join(processedDir, outputName)

	if info, err := os.Stat(outputPath); err == nil {
		logger.Info("dump already extracted", "path", outputPath, "size_bytes", info.Size())
		return outputPath, nil
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("open compressed dump: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("read gzip header: %w", err)
	}
	defer gz.Close()

	logger.Info("extracting dump", "input", inputPath)

	written, err := writeStream(outputPath, gz)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", inputPath, err)
	}

	logger.Info("extraction complete", "path", outputPath, "size_bytes", written)
	return outputPath, nil
}

// ExtractForBucket locates the raw dump for b in rawDir and extracts
// it into processedDir, failing fast when the raw artifact is missing.
func ExtractForBucket(b bucket.Bucket, rawDir, processedDir string, logger *slog.Logger) (string, error) {
	inputPath := filepath.Join(rawDir, b.DumpFilename())
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return "", &pageviews.InputNotFoundError{Path: inputPath}
	}
	return Extract(inputPath, processedDir, logger)
}
