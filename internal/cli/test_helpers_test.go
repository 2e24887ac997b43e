package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// writeTestConfig creates a config file pointing every path at dirs
// under root, plus a companies mapping, and returns the config path.
func writeTestConfig(t *testing.T, root string) string {
	t.Helper()

	companiesPath := filepath.Join(root, "companies.json")
	require.NoError(t, os.WriteFile(companiesPath,
		[]byte(`{"Acme": "Acme_Corp", "Globex": "Globex_Corporation"}`), 0644))

	cfgPath := filepath.Join(root, "config.yaml")
	content := fmt.Sprintf(`
data:
  raw_dir: %s
  processed_dir: %s
source:
  base_url: https://dumps.example.org/other/pageviews
filter:
  companies_file: %s
  domain: en
storage:
  sqlite_file: %s
`,
		filepath.Join(root, "raw"),
		filepath.Join(root, "processed"),
		companiesPath,
		filepath.Join(root, "pageviews.db"),
	)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

// writeTestDump places a decompressed dump for the given bucket name
// into the processed directory.
func writeTestDump(t *testing.T, root, filename string, lines string) {
	t.Helper()
	dir := filepath.Join(root, "processed")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(lines), 0644))
}
