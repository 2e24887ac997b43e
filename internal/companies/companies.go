// Package companies loads the tracked-company mapping: which Wikipedia
// page title belongs to which company.
package companies

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfigError indicates the company mapping source is unreadable or malformed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("companies config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Directory holds the company → page title mapping and its reverse
// lookup. It is built once per filter run and never mutated afterwards.
type Directory struct {
	pageByCompany map[string]string
	companyByPage map[string]string
}

// Load reads a JSON document of the form
// {"<CompanyName>": "<CanonicalWikipediaPageTitle>", ...} and builds
// the reverse lookup. Fails with *ConfigError on unreadable files,
// invalid JSON, empty mappings, or duplicate page titles.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if len(mapping) == 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("mapping is empty")}
	}

	reverse := make(map[string]string, len(mapping))
	for company, page := range mapping {
		if company == "" || page == "" {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("empty company name or page title")}
		}
		if prev, dup := reverse[page]; dup {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("page title %q mapped to both %q and %q", page, prev, company)}
		}
		reverse[page] = company
	}

	return &Directory{pageByCompany: mapping, companyByPage: reverse}, nil
}

// CompanyFor resolves a page title to its company. The second return
// value is false when the page is not tracked.
func (d *Directory) CompanyFor(pageTitle string) (string, bool) {
	company, ok := d.companyByPage[pageTitle]
	return company, ok
}

// PageFor returns the canonical page title for a company.
func (d *Directory) PageFor(company string) (string, bool) {
	page, ok := d.pageByCompany[company]
	return page, ok
}

// Len is the number of tracked companies.
func (d *Directory) Len() int {
	return len(d.pageByCompany)
}
