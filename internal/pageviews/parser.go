package pageviews

import (
	"strconv"
	"strings"
)

// ParseLine parses one raw dump line of the form
//
//	<domain> <page_title> <view_count> <response_size>
//
// It splits on the first three spaces only, so a title containing
// stray separators stays intact through the third field boundary.
// Returns ok=false on any malformed line: hourly dumps contain the
// occasional broken line and the scan must keep going, so malformed
// input is skipped rather than treated as an error.
func ParseLine(line string) (Record, bool) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 4)
	if len(fields) != 4 {
		return Record{}, false
	}

	views, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || views < 0 {
		return Record{}, false
	}
	size, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || size < 0 {
		return Record{}, false
	}

	return Record{
		Domain:       fields[0],
		PageTitle:    fields[1],
		ViewCount:    views,
		ResponseSize: size,
	}, true
}
