// Package crawl provides the contact-scraping orchestration. It expands
// seed URLs into their same-domain internal links, fans out concurrent
// fetch+extract work over the deduplicated URL set, and aggregates the
// per-page results.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxPages is the per-seed page budget for link discovery.
const DefaultMaxPages = 10

// Frontier sizing for cross-seed URL deduplication.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Ensure Crawler implements harvest.Scraper at compile time.
var _ harvest.Scraper = (*Crawler)(nil)

// Crawler orchestrates contact scraping across seed URLs and their
// discovered internal links.
type Crawler struct {
	Fetcher  harvest.Fetcher
	Text     harvest.TextExtractor
	Contacts harvest.ContactExtractor
	Links    harvest.LinkSource

	// Sitemaps, when set, is consulted for a seed whose page exposes no
	// same-domain anchors.
	Sitemaps harvest.SitemapSource

	// Limiter, when set, throttles requests per domain.
	Limiter harvest.DomainLimiter

	// MaxPages caps the URLs discovered per seed, the seed included.
	// Defaults to DefaultMaxPages.
	MaxPages int

	// Concurrency caps simultaneous fetches across the whole crawl.
	// Zero or negative means no cap: every URL is fetched at once.
	Concurrency int

	Logger *slog.Logger
}

// Crawl normalizes the seeds, discovers each seed's internal links,
// deduplicates the combined URL set across seeds, and fetches and
// extracts every URL concurrently. It returns exactly one PageResult per
// deduplicated URL, in discovery order. A single page's failure is
// recorded on its PageResult and never aborts the rest of the crawl.
//
// The only error returned is EINVALID, when no usable seed remains after
// normalization; it is raised before any network activity.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) ([]harvest.PageResult, error) {
	normalized, err := NormalizeSeeds(seeds)
	if err != nil {
		return nil, err
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, seed := range normalized {
		for _, u := range c.Discover(ctx, seed) {
			frontier.Push(u)
		}
	}
	urls := frontier.URLs()

	results := make([]harvest.PageResult, len(urls))

	g := new(errgroup.Group)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			results[i] = c.processURL(ctx, pageURL)
			return nil
		})
	}
	_ = g.Wait()

	c.logger().Info("crawl finished",
		"seeds", len(normalized),
		"urls", len(urls),
	)

	return results, nil
}

// Discover fetches the seed page and returns the same-domain URLs to
// visit, the seed itself always first. The output is capped at MaxPages.
// Any failure degrades to a singleton set containing only the seed.
func (c *Crawler) Discover(ctx context.Context, seed string) []string {
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	urls := []string{seed}

	if err := c.wait(ctx, seed); err != nil {
		return urls
	}

	html, err := c.Fetcher.Fetch(ctx, seed)
	if err != nil {
		c.logger().Debug("seed fetch failed, crawling seed only", "seed", seed, "err", err)
		return urls
	}

	links, err := c.Links.Links(html, seed)
	if err != nil {
		c.logger().Debug("link extraction failed, crawling seed only", "seed", seed, "err", err)
		return urls
	}
	for _, link := range links {
		if len(urls) >= maxPages {
			break
		}
		urls = append(urls, link)
	}

	// A page without same-domain anchors may still have a sitemap.
	if len(urls) == 1 && c.Sitemaps != nil {
		if discovered, err := c.Sitemaps.URLs(ctx, seed, maxPages-1); err == nil {
			for _, u := range discovered {
				if u == seed || len(urls) >= maxPages {
					continue
				}
				urls = append(urls, u)
			}
		}
	}

	return urls
}

// processURL fetches one URL and extracts contacts from its visible text.
// Failures are recorded on the PageResult; the result of a failed page
// always has empty contact sets.
func (c *Crawler) processURL(ctx context.Context, pageURL string) harvest.PageResult {
	result := harvest.PageResult{
		URL:       pageURL,
		FetchedAt: time.Now().UTC(),
	}

	if err := c.wait(ctx, pageURL); err != nil {
		result.Error = err.Error()
		return result
	}

	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	text, err := c.Text.Text(html)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	contacts := c.Contacts.Extract(text)
	result.Emails = contacts.Emails
	result.Phones = contacts.Phones
	result.ContentHash = computeHash(text)

	return result
}

// wait applies the optional per-domain limiter for a request to rawURL.
func (c *Crawler) wait(ctx context.Context, rawURL string) error {
	if c.Limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return c.Limiter.Wait(ctx, u.Host)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
