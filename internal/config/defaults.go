package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
		},
		Source: SourceConfig{
			BaseURL:        "https://dumps.wikimedia.org/other/pageviews",
			TimeoutSeconds: 300,
		},
		Filter: FilterConfig{
			CompaniesFile:    "config/companies.json",
			Domain:           "en",
			ProgressInterval: 1_000_000,
		},
		Storage: StorageConfig{
			SQLiteFile: "data/pageviews.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
