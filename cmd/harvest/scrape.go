package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	results, err := deps.Scraper.Crawl(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	rows, summary := crawl.Aggregate(results)

	// Merge into the dataset and wait for the write before exiting.
	persister := newPersister(deps)
	persister.Enqueue(results)
	defer persister.Close()

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Success bool          `json:"success"`
			Data    []crawl.Row   `json:"data"`
			Summary crawl.Summary `json:"summary"`
		}{Success: true, Data: rows, Summary: summary})
	}

	for _, row := range rows {
		fmt.Fprintf(deps.Stdout, "%-6s %-40s %s\n", row.Type, row.Value, row.Source)
	}

	for _, result := range results {
		if result.Failed() {
			fmt.Fprintf(deps.Stderr, "failed: %s: %s\n", result.URL, result.Error)
		}
	}

	fmt.Fprintf(deps.Stdout, "\nScraped %d pages: %d emails, %d phone numbers\n",
		summary.TotalURLsScraped, summary.TotalEmails, summary.TotalPhones)

	return nil
}

// newPersister builds the background persistence worker from the wired
// store and optional journal.
func newPersister(deps *Dependencies) *crawl.Persister {
	opts := []crawl.PersisterOption{crawl.WithLogger(deps.Logger)}
	if deps.Journal != nil {
		opts = append(opts, crawl.WithJournal(deps.Journal))
	}
	return crawl.NewPersister(deps.Contacts, opts...)
}
