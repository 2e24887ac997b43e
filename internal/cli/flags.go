package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config      string `long:"config" description:"Path to config file" default:""`
	JSON        bool   `long:"json" description:"Output in JSON format"`
	MetricsFile string `long:"metrics-file" description:"Write collected metrics to this file in Prometheus text format"`
	Verbose     bool   `long:"verbose" description:"Enable verbose output"`
	Version     bool   `long:"version" description:"Show version and exit"`
}

// FetchCommand downloads the compressed dump for one hourly bucket.
type FetchCommand struct {
	Date string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`

	globals *GlobalFlags
}

// ExtractCommand decompresses the raw dump for one hourly bucket.
type ExtractCommand struct {
	Date string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`

	globals *GlobalFlags
}

// FilterCommand scans the decompressed dump for tracked company pages.
type FilterCommand struct {
	Date string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`

	globals *GlobalFlags
}

// LoadCommand upserts the filtered records for one bucket into SQLite.
type LoadCommand struct {
	Date string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`

	globals *GlobalFlags
}

// SummarizeCommand ranks total views per company over a bucket or range.
type SummarizeCommand struct {
	Date   string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`
	To     string `long:"to" description:"End of bucket range, inclusive (defaults to --date)"`
	Output string `long:"output" description:"Also write company totals to a CSV file"`

	globals *GlobalFlags
}

// RunCommand runs fetch, extract, filter, load, and summarize in order.
type RunCommand struct {
	Date string `long:"date" description:"Hourly bucket (YYYY-MM-DDTHH, UTC)" required:"true"`

	globals *GlobalFlags
}

// StatusCommand shows store statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}
