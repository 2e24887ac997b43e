package pageviews

// Record is one parsed dump line. It lives only for the duration of
// the scan of that line.
type Record struct {
	Domain       string
	PageTitle    string
	ViewCount    int64
	ResponseSize int64
}

// FilteredRecord is a dump record matched to a tracked company,
// the unit persisted by the load stage.
type FilteredRecord struct {
	Company   string
	PageTitle string
	ViewCount int64
	Domain    string
}
