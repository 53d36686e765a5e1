package harvest

import (
	"context"
	"time"
)

// PageResult is the outcome of fetching one URL and extracting contacts
// from it. Error is mutually exclusive with non-empty Emails/Phones: a
// failed fetch produces a result with Error set and both sets empty.
type PageResult struct {
	URL         string    `json:"url"`
	Emails      []string  `json:"emails"`
	Phones      []string  `json:"phones"`
	ContentHash string    `json:"contentHash,omitempty"`
	FetchedAt   time.Time `json:"timestamp"`
	Error       string    `json:"error,omitempty"`
}

// Failed reports whether the fetch or extraction for this page failed.
func (r *PageResult) Failed() bool {
	return r.Error != ""
}

// Scraper runs the crawl pipeline over a list of seed URLs and returns one
// PageResult per discovered URL.
type Scraper interface {
	Crawl(ctx context.Context, seeds []string) ([]PageResult, error)
}

// ResultSink accepts crawl results for asynchronous, best-effort
// persistence off the response path.
type ResultSink interface {
	Enqueue(results []PageResult)
}

// PageJournal records per-URL fetch outcomes for auditing repeat crawls.
// Implementations keep the latest attempt per URL.
type PageJournal interface {
	RecordPages(ctx context.Context, results []PageResult) error
}
