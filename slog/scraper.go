package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingScraper implements harvest.Scraper.
var _ harvest.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with operational logging.
type LoggingScraper struct {
	next   harvest.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next harvest.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Crawl delegates to the wrapped scraper and logs the operation.
func (s *LoggingScraper) Crawl(ctx context.Context, seeds []string) (results []harvest.PageResult, err error) {
	defer func(begin time.Time) {
		failed := 0
		for _, result := range results {
			if result.Failed() {
				failed++
			}
		}
		s.logger.Info("crawl",
			"seeds", len(seeds),
			"pages", len(results),
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Crawl(ctx, seeds)
}
