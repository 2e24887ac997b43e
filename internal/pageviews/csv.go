package pageviews

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader is the filtered-artifact column order. The load stage and
// any external consumer rely on it.
var csvHeader = []string{"company", "page_title", "view_count", "domain"}

// WriteFiltered writes records as the CSV artifact at path, header
// included, one record per line. A partially written file is removed
// before the error propagates so a rerun never mistakes a truncated
// artifact for a completed one.
func WriteFiltered(path string, records []FilteredRecord) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create filtered file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close filtered file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Company, r.PageTitle, strconv.FormatInt(r.ViewCount, 10), r.Domain}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadFiltered reads a filtered CSV artifact back into records, the
// input of the load stage.
func ReadFiltered(path string) ([]FilteredRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &InputNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open filtered file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read filtered file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("filtered file %s has no header", path)
	}

	records := make([]FilteredRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		views, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid view_count %q: %w", row[2], err)
		}
		records = append(records, FilteredRecord{
			Company:   row[0],
			PageTitle: row[1],
			ViewCount: views,
			Domain:    row[3],
		})
	}
	return records, nil
}
