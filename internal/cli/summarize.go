package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Feyiarmstrong/pageview-pipeline/internal/bucket"
	"github.com/Feyiarmstrong/pageview-pipeline/internal/storage"
)

// summaryJSON is the JSON output structure for the summarize command.
type summaryJSON struct {
	From      string            `json:"from"`
	To        string            `json:"to"`
	Companies []companyViewJSON `json:"companies"`
}

type companyViewJSON struct {
	Rank       int             `json:"rank"`
	Company    string          `json:"company"`
	TotalViews int64           `json:"total_views"`
	TopPages   []pageViewsJSON `json:"top_pages,omitempty"`
}

type pageViewsJSON struct {
	PageTitle string `json:"page_title"`
	Views     int64  `json:"views"`
}

// Execute implements the go-flags Commander interface for SummarizeCommand.
func (c *SummarizeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	from, err := parseDate(c.Date)
	if err != nil {
		return err
	}
	to := from
	if c.To != "" {
		if to, err = bucket.Parse(c.To); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return stageError("summarize", from, err)
	}
	defer db.Close()
	defer store.Close()

	summary, err := store.Summarize(context.Background(), from.Time(), to.Time())
	if err != nil {
		return stageError("summarize", from, err)
	}

	if c.Output != "" {
		if err := writeAnalysisCSV(c.Output, summary); err != nil {
			return stageError("summarize", from, err)
		}
	}

	if c.globals != nil && c.globals.JSON {
		return printSummaryJSON(summary)
	}
	printSummaryTable(os.Stdout, summary)
	return nil
}

func printSummaryJSON(summary *storage.Summary) error {
	out := summaryJSON{
		From:      summary.From.Format(bucket.Layout),
		To:        summary.To.Format(bucket.Layout),
		Companies: make([]companyViewJSON, len(summary.Companies)),
	}
	for i, ct := range summary.Companies {
		cv := companyViewJSON{Rank: i + 1, Company: ct.Company, TotalViews: ct.TotalViews}
		for _, p := range ct.TopPages {
			cv.TopPages = append(cv.TopPages, pageViewsJSON{PageTitle: p.PageTitle, Views: p.Views})
		}
		out.Companies[i] = cv
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSummaryTable(w io.Writer, summary *storage.Summary) {
	if len(summary.Companies) == 0 {
		fmt.Fprintf(w, "No data for %s\n", formatRange(summary))
		return
	}

	fmt.Fprintf(w, "Pageviews %s\n\n", formatRange(summary))

	rows := make([][]string, 0, len(summary.Companies))
	for i, ct := range summary.Companies {
		topPage := ""
		if len(ct.TopPages) > 0 {
			topPage = ct.TopPages[0].PageTitle
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ct.Company,
			strconv.FormatInt(ct.TotalViews, 10),
			topPage,
		})
	}

	table := tablewriter.NewTable(w)
	table.Header([]string{"Rank", "Company", "Total Views", "Top Page"})
	table.Bulk(rows)
	table.Render()

	leader := summary.Companies[0]
	fmt.Fprintf(w, "\nHighest pageviews: %s with %d views\n", leader.Company, leader.TotalViews)
}

func formatRange(summary *storage.Summary) string {
	from := summary.From.Format(bucket.Layout)
	to := summary.To.Format(bucket.Layout)
	if from == to {
		return from
	}
	return from + " .. " + to
}

// writeAnalysisCSV exports company totals as "company,total_views",
// ranked, for downstream analysis.
func writeAnalysisCSV(path string, summary *storage.Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create analysis file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"company", "total_views"}); err != nil {
		return err
	}
	for _, ct := range summary.Companies {
		if err := w.Write([]string{ct.Company, strconv.FormatInt(ct.TotalViews, 10)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
