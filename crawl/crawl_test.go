package crawl_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/extract"
	"github.com/fwojciec/harvest/goquery"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteFetcher serves pages from a map and counts fetches per URL.
type siteFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched map[string]int
}

func newSiteFetcher(pages map[string]string) *siteFetcher {
	return &siteFetcher{pages: pages, fetched: make(map[string]int)}
}

func (f *siteFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched[url]++
	html, ok := f.pages[url]
	if !ok {
		return "", harvest.Errorf(harvest.EUNAVAILABLE, "HTTP 404 for %s", url)
	}
	return html, nil
}

func (f *siteFetcher) Close() error { return nil }

func (f *siteFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetched[url]
}

func newCrawler(fetcher harvest.Fetcher) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:  fetcher,
		Text:     goquery.NewText(),
		Contacts: extract.NewExtractor(),
		Links:    goquery.NewLinks(),
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("one result per discovered URL in discovery order", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<body>
				<a href="/contact">contact</a>
				<a href="/about">about</a>
				<p>welcome@example.com</p>
			</body>`,
			"https://example.com/contact": `<p>Call +1-555-123-4567 or write sales@example.com</p>`,
			"https://example.com/about":   `<p>no contacts here</p>`,
		})

		c := newCrawler(fetcher)
		results, err := c.Crawl(context.Background(), []string{"https://example.com/"})
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.Equal(t, "https://example.com/", results[0].URL)
		assert.Equal(t, "https://example.com/contact", results[1].URL)
		assert.Equal(t, "https://example.com/about", results[2].URL)

		assert.Equal(t, []string{"welcome@example.com"}, results[0].Emails)
		assert.Equal(t, []string{"sales@example.com"}, results[1].Emails)
		assert.Contains(t, results[1].Phones, "+15551234567")
		assert.Empty(t, results[2].Emails)
		assert.NotEmpty(t, results[0].ContentHash)
	})

	t.Run("failed seed yields a single errored result", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "", fmt.Errorf("fetch %s: connection refused", url)
			},
		}

		c := newCrawler(fetcher)
		results, err := c.Crawl(context.Background(), []string{"https://down.example.com"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
		assert.Contains(t, results[0].Error, "connection refused")
		assert.Empty(t, results[0].Emails)
		assert.Empty(t, results[0].Phones)
	})

	t.Run("one failed page does not abort siblings", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<body>
				<a href="/broken">broken</a>
				<a href="/ok">ok</a>
			</body>`,
			// /broken is absent from the map, so fetching it fails.
			"https://example.com/ok": `<p>team@example.com</p>`,
		})

		c := newCrawler(fetcher)
		results, err := c.Crawl(context.Background(), []string{"https://example.com/"})
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.True(t, results[1].Failed())
		assert.Empty(t, results[1].Emails)
		assert.False(t, results[2].Failed())
		assert.Equal(t, []string{"team@example.com"}, results[2].Emails)
	})

	t.Run("page shared between two seeds is fetched exactly once", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/x":      `<a href="/shared">shared</a>`,
			"https://example.com/y":      `<a href="/shared">shared</a>`,
			"https://example.com/shared": `<p>shared@example.com</p>`,
		})

		c := newCrawler(fetcher)
		results, err := c.Crawl(context.Background(), []string{
			"https://example.com/x",
			"https://example.com/y",
		})
		require.NoError(t, err)

		assert.Len(t, results, 3)
		assert.Equal(t, 1, fetcher.count("https://example.com/shared"))
	})

	t.Run("bare seed gets https scheme before fetching", func(t *testing.T) {
		t.Parallel()

		var gotURL atomic.Value
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				gotURL.Store(url)
				return "<body></body>", nil
			},
		}

		c := newCrawler(fetcher)
		results, err := c.Crawl(context.Background(), []string{"example.com"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, "https://example.com", results[0].URL)
		assert.Equal(t, "https://example.com", gotURL.Load())
	})

	t.Run("rejects input with no usable seeds", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(&mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Error("no fetch should happen for invalid input")
				return "", nil
			},
		})

		_, err := c.Crawl(context.Background(), []string{"  ", "\t"})
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))

		_, err = c.Crawl(context.Background(), nil)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("respects concurrency cap", func(t *testing.T) {
		t.Parallel()

		var maxConcurrent, currentConcurrent atomic.Int32

		pages := map[string]string{"https://example.com/": `<body>`}
		for i := 1; i <= 9; i++ {
			pages["https://example.com/"] += fmt.Sprintf(`<a href="/page%d">p</a>`, i)
			pages[fmt.Sprintf("https://example.com/page%d", i)] = "<p>x</p>"
		}
		pages["https://example.com/"] += `</body>`

		inner := newSiteFetcher(pages)
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				current := currentConcurrent.Add(1)
				for {
					max := maxConcurrent.Load()
					if current <= max || maxConcurrent.CompareAndSwap(max, current) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				currentConcurrent.Add(-1)
				return inner.Fetch(ctx, url)
			},
		}

		c := newCrawler(fetcher)
		c.Concurrency = 2

		results, err := c.Crawl(context.Background(), []string{"https://example.com/"})
		require.NoError(t, err)
		assert.Len(t, results, 10)

		// Discovery runs before fan-out, so the cap applies to the
		// concurrent page fetches.
		assert.LessOrEqual(t, maxConcurrent.Load(), int32(2))
	})

	t.Run("limiter is consulted per request", func(t *testing.T) {
		t.Parallel()

		var waits atomic.Int32
		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/":  `<a href="/a">a</a>`,
			"https://example.com/a": `<p>x</p>`,
		})

		c := newCrawler(fetcher)
		c.Limiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				waits.Add(1)
				assert.Equal(t, "example.com", domain)
				return nil
			},
		}

		_, err := c.Crawl(context.Background(), []string{"https://example.com/"})
		require.NoError(t, err)

		// One wait for discovery plus one per fetched page.
		assert.Equal(t, int32(3), waits.Load())
	})
}

func TestCrawler_Discover(t *testing.T) {
	t.Parallel()

	t.Run("seed is always the first entry", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<a href="/a">a</a><a href="/b">b</a>`,
		})

		c := newCrawler(fetcher)
		urls := c.Discover(context.Background(), "https://example.com/")

		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
		}, urls)
	})

	t.Run("fetch failure degrades to seed only", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", fmt.Errorf("connection refused")
			},
		}

		c := newCrawler(fetcher)
		urls := c.Discover(context.Background(), "https://down.example.com")

		assert.Equal(t, []string{"https://down.example.com"}, urls)
	})

	t.Run("caps output at MaxPages", func(t *testing.T) {
		t.Parallel()

		html := "<body>"
		for i := 0; i < 25; i++ {
			html += fmt.Sprintf(`<a href="/page%d">p</a>`, i)
		}
		html += "</body>"

		fetcher := newSiteFetcher(map[string]string{"https://example.com/": html})

		c := newCrawler(fetcher)
		urls := c.Discover(context.Background(), "https://example.com/")
		assert.Len(t, urls, crawl.DefaultMaxPages)

		c.MaxPages = 5
		urls = c.Discover(context.Background(), "https://example.com/")
		assert.Len(t, urls, 5)
		assert.Equal(t, "https://example.com/", urls[0])
	})

	t.Run("cross-domain links are discarded", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<body>
				<a href="https://other.org/">external</a>
				<a href="/internal">internal</a>
			</body>`,
		})

		c := newCrawler(fetcher)
		urls := c.Discover(context.Background(), "https://example.com/")

		assert.Equal(t, []string{"https://example.com/", "https://example.com/internal"}, urls)
	})

	t.Run("falls back to sitemap when the page has no links", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<p>no anchors</p>`,
		})

		c := newCrawler(fetcher)
		c.Sitemaps = &mock.SitemapSource{
			URLsFn: func(_ context.Context, seed string, limit int) ([]string, error) {
				assert.Equal(t, "https://example.com/", seed)
				assert.Equal(t, crawl.DefaultMaxPages-1, limit)
				return []string{"https://example.com/hidden", "https://example.com/deep"}, nil
			},
		}

		urls := c.Discover(context.Background(), "https://example.com/")

		assert.Equal(t, []string{
			"https://example.com/",
			"https://example.com/hidden",
			"https://example.com/deep",
		}, urls)
	})

	t.Run("sitemap is not consulted when anchors exist", func(t *testing.T) {
		t.Parallel()

		fetcher := newSiteFetcher(map[string]string{
			"https://example.com/": `<a href="/a">a</a>`,
		})

		c := newCrawler(fetcher)
		c.Sitemaps = &mock.SitemapSource{
			URLsFn: func(_ context.Context, _ string, _ int) ([]string, error) {
				t.Error("sitemap should not be consulted")
				return nil, nil
			},
		}

		urls := c.Discover(context.Background(), "https://example.com/")
		assert.Equal(t, []string{"https://example.com/", "https://example.com/a"}, urls)
	})
}
