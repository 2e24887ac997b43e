package bucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	b, err := Parse("2025-12-01T12")
	require.NoError(t, err)
	assert.Equal(t, Bucket{Year: 2025, Month: 12, Day: 1, Hour: 12}, b)
	assert.Equal(t, "2025-12-01T12", b.String())
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "2025-12-01", "2025-12-01 12", "12/01/2025T12", "2025-13-01T12"}
	for _, s := range cases {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestFromTime_TruncatesToHourUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 7:45 AM New York is 12:45 UTC.
	b := FromTime(time.Date(2025, 12, 1, 7, 45, 30, 0, loc))
	assert.Equal(t, Bucket{Year: 2025, Month: 12, Day: 1, Hour: 12}, b)
	assert.Equal(t, time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC), b.Time())
}

func TestFilenames(t *testing.T) {
	b := Bucket{Year: 2025, Month: 12, Day: 1, Hour: 12}
	assert.Equal(t, "pageviews-20251201-120000.gz", b.DumpFilename())
	assert.Equal(t, "pageviews-20251201-120000", b.ExtractedFilename())
	assert.Equal(t, "filtered_pageviews-20251201-120000.csv", b.FilteredFilename())
}

func TestFilenames_ZeroPadding(t *testing.T) {
	b := Bucket{Year: 2026, Month: 1, Day: 5, Hour: 3}
	assert.Equal(t, "pageviews-20260105-030000.gz", b.DumpFilename())
}

func TestURL(t *testing.T) {
	b := Bucket{Year: 2025, Month: 12, Day: 17, Hour: 16}
	got := b.URL("https://dumps.wikimedia.org/other/pageviews")
	assert.Equal(t,
		"https://dumps.wikimedia.org/other/pageviews/2025/2025-12/pageviews-20251217-160000.gz",
		got)
}
