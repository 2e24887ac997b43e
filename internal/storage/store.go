package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/metrics"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/pageviews"
)

// topPagesPerCompany caps the per-company page diagnostic in summaries.
const topPagesPerCompany = 5

// Store defines persistence and aggregation for filtered pageviews.
type Store interface {
	Upsert(ctx context.Context, records []pageviews.FilteredRecord, executionDate time.Time) (int64, error)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	upsert *sql.Stmt

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// NewSQLiteStore creates a SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsert, err = s.db.Prepare(`
		INSERT INTO wikipedia_pageviews (company, page_title, view_count, domain, execution_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (company, execution_date)
		DO UPDATE SET
			view_count = excluded.view_count,
			page_title = excluded.page_title,
			domain     = excluded.domain
	`)
	return err
}

// Upsert writes records keyed by (company, executionDate) in a single
// transaction: either every record in the call commits or none do.
// Re-running the load for a bucket overwrites view_count, page_title,
// and domain in place, so the table converges to the same state as a
// single clean run no matter how many times a bucket is loaded.
//
// An empty record set is a legitimate outcome (no tracked company in
// that hour's data): it returns 0 without touching the database.
func (s *SQLiteStore) Upsert(ctx context.Context, records []pageviews.FilteredRecord, executionDate time.Time) (int64, error) {
	log := s.logger()

	if len(records) == 0 {
		log.Warn("no records to load", "execution_date", formatBucket(executionDate))
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StoreUnavailableError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.upsert)
	defer stmt.Close()

	dateFormatted := formatBucket(executionDate)

	var affected int64
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.Company, r.PageTitle, r.ViewCount, r.Domain, dateFormatted)
		if err != nil {
			return 0, &StoreUnavailableError{Op: "upsert record", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &StoreUnavailableError{Op: "rows affected", Err: err}
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, &StoreUnavailableError{Op: "commit", Err: err}
	}

	s.Metrics.AddRowsUpserted(affected)
	log.Info("loaded records", "rows_affected", affected, "execution_date", dateFormatted)
	return affected, nil
}

// Summarize aggregates total views per company over [from, to]
// inclusive, ranked descending, with each company's top pages by view
// count. The store holds one row per company per bucket, so over a
// single bucket the sum degenerates to that row's count; over a range
// it totals across buckets. An empty range yields an empty summary,
// not an error.
func (s *SQLiteStore) Summarize(ctx context.Context, from, to time.Time) (*Summary, error) {
	fromStr, toStr := formatBucket(from), formatBucket(to)

	rows, err := s.db.QueryContext(ctx, `
		SELECT company, SUM(view_count) AS total_views
		FROM wikipedia_pageviews
		WHERE execution_date >= ? AND execution_date <= ?
		GROUP BY company
		ORDER BY total_views DESC, company ASC
	`, fromStr, toStr)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "summarize totals", Err: err}
	}
	defer rows.Close()

	summary := &Summary{From: from.UTC(), To: to.UTC(), Companies: []CompanyTotal{}}
	index := make(map[string]int)
	for rows.Next() {
		var ct CompanyTotal
		if err := rows.Scan(&ct.Company, &ct.TotalViews); err != nil {
			return nil, fmt.Errorf("scan company total: %w", err)
		}
		index[ct.Company] = len(summary.Companies)
		summary.Companies = append(summary.Companies, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTopPages(ctx, summary, index, fromStr, toStr); err != nil {
		return nil, err
	}

	return summary, nil
}

// attachTopPages fills in each company's highest-viewed pages.
func (s *SQLiteStore) attachTopPages(ctx context.Context, summary *Summary, index map[string]int, fromStr, toStr string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company, page_title, SUM(view_count) AS views
		FROM wikipedia_pageviews
		WHERE execution_date >= ? AND execution_date <= ?
		GROUP BY company, page_title
		ORDER BY company ASC, views DESC, page_title ASC
	`, fromStr, toStr)
	if err != nil {
		return &StoreUnavailableError{Op: "summarize pages", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var company string
		var pc PageCount
		if err := rows.Scan(&company, &pc.PageTitle, &pc.Views); err != nil {
			return fmt.Errorf("scan page count: %w", err)
		}
		i, ok := index[company]
		if !ok || len(summary.Companies[i].TopPages) >= topPagesPerCompany {
			continue
		}
		summary.Companies[i].TopPages = append(summary.Companies[i].TopPages, pc)
	}
	return rows.Err()
}

// Stats returns aggregate statistics about the pageviews table.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT company) FROM wikipedia_pageviews",
	).Scan(&stats.TotalRows, &stats.Companies)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "count rows", Err: err}
	}

	if stats.TotalRows > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(execution_date), MAX(execution_date) FROM wikipedia_pageviews",
		).Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("bucket time range: %w", err)
		}
		if stats.OldestBucket, err = parseBucket(oldestStr); err != nil {
			return nil, err
		}
		if stats.NewestBucket, err = parseBucket(newestStr); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT company, SUM(view_count) AS total_views
		FROM wikipedia_pageviews
		GROUP BY company
		ORDER BY total_views DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct CompanyTotal
		if err := rows.Scan(&ct.Company, &ct.TotalViews); err != nil {
			return nil, err
		}
		stats.TopCompanies = append(stats.TopCompanies, ct)
	}

	return stats, rows.Err()
}

// Close releases prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	if s.upsert != nil {
		s.upsert.Close()
	}
	return nil
}

func (s *SQLiteStore) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// formatBucket renders an execution date the way it is stored: RFC3339
// UTC text. Hour buckets always carry zero minutes and seconds.
func formatBucket(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseBucket(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse execution_date: %q", s)
	}
	return t, nil
}
