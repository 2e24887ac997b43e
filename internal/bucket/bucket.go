// Package bucket identifies one hourly partition of the pipeline: the
// hour whose dump is downloaded, filtered, and loaded as a unit.
package bucket

import (
	"fmt"
	"time"
)

// Layout is the CLI date format for a bucket: date plus hour, UTC.
const Layout = "2006-01-02T15"

// Bucket is an hour-granularity identifier for one pipeline run.
type Bucket struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// Parse reads a bucket from its CLI form, e.g. "2025-12-01T12".
func Parse(s string) (Bucket, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Bucket{}, fmt.Errorf("invalid date %q (want YYYY-MM-DDTHH): %w", s, err)
	}
	return FromTime(t), nil
}

// FromTime truncates t to the hour in UTC.
func FromTime(t time.Time) Bucket {
	t = t.UTC()
	return Bucket{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Hour: t.Hour()}
}

// Time returns the bucket as a UTC timestamp with zero minutes and seconds.
func (b Bucket) Time() time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, 0, 0, 0, time.UTC)
}

func (b Bucket) String() string {
	return b.Time().Format(Layout)
}

// DumpFilename returns the compressed hourly dump name used by the
// upstream archive, e.g. "pageviews-20251201-120000.gz".
func (b Bucket) DumpFilename() string {
	return fmt.Sprintf("pageviews-%04d%02d%02d-%02d0000.gz", b.Year, b.Month, b.Day, b.Hour)
}

// ExtractedFilename is the dump name after decompression.
func (b Bucket) ExtractedFilename() string {
	return fmt.Sprintf("pageviews-%04d%02d%02d-%02d0000", b.Year, b.Month, b.Day, b.Hour)
}

// FilteredFilename is the name of the filtered CSV artifact for this bucket.
func (b Bucket) FilteredFilename() string {
	return "filtered_" + b.ExtractedFilename() + ".csv"
}

// URL builds the full download URL for this bucket's dump. The archive
// lays files out as <base>/<year>/<year>-<month>/<filename>.
func (b Bucket) URL(baseURL string) string {
	return fmt.Sprintf("%s/%04d/%04d-%02d/%s", baseURL, b.Year, b.Year, b.Month, b.DumpFilename())
}
