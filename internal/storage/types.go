package storage

import "time"

// PageCount pairs a page title with its view total.
type PageCount struct {
	PageTitle string
	Views     int64
}

// CompanyTotal is one company's aggregate over a time range, with its
// highest-viewed pages kept for diagnostic reporting.
type CompanyTotal struct {
	Company    string
	TotalViews int64
	TopPages   []PageCount
}

// Summary is the ranked aggregate for a time range, companies ordered
// by total views descending. Recomputed per query, never persisted.
type Summary struct {
	From      time.Time
	To        time.Time
	Companies []CompanyTotal
}

// Stats holds aggregate statistics about the pageviews table.
type Stats struct {
	TotalRows    int64
	Companies    int64
	OldestBucket time.Time
	NewestBucket time.Time
	TopCompanies []CompanyTotal
}
