package storage

import "database/sql"

// migrateV001 creates the pageviews table and its indexes. Every
// statement uses IF NOT EXISTS for idempotency.
//
// The UNIQUE constraint on (company, execution_date) is load-bearing:
// it keys the upsert so repeated loads of the same hour converge to
// one row per company instead of accumulating duplicates.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wikipedia_pageviews (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			company        TEXT NOT NULL,
			page_title     TEXT NOT NULL,
			view_count     INTEGER NOT NULL,
			domain         TEXT NOT NULL,
			execution_date DATETIME NOT NULL,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (company, execution_date)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_pageviews_company        ON wikipedia_pageviews(company)`,
		`CREATE INDEX IF NOT EXISTS idx_pageviews_execution_date ON wikipedia_pageviews(execution_date)`,
		`CREATE INDEX IF NOT EXISTS idx_pageviews_view_count     ON wikipedia_pageviews(view_count)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
