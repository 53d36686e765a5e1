package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of harvest.Scraper.
type Scraper struct {
	CrawlFn func(ctx context.Context, seeds []string) ([]harvest.PageResult, error)
}

func (s *Scraper) Crawl(ctx context.Context, seeds []string) ([]harvest.PageResult, error) {
	return s.CrawlFn(ctx, seeds)
}

var _ harvest.ResultSink = (*ResultSink)(nil)

// ResultSink is a mock implementation of harvest.ResultSink.
type ResultSink struct {
	EnqueueFn func(results []harvest.PageResult)
}

func (s *ResultSink) Enqueue(results []harvest.PageResult) {
	s.EnqueueFn(results)
}
