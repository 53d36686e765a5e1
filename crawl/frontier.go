package crawl

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Frontier is an insertion-ordered URL set with Bloom filter
// deduplication. URLs pushed from multiple seeds come out once, in the
// order first seen, which keeps crawl output deterministic for equal
// inputs. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu   sync.Mutex
	seen *bloom.BloomFilter
	urls []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewWithEstimates(n, fpRate),
	}
}

// Push adds a URL to the frontier.
// Returns false if the URL has already been seen.
// URL fragments are stripped before deduplication - URLs differing only
// by fragment are considered duplicates.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := rawURL
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}

	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)

	f.urls = append(f.urls, url)
	return true
}

// URLs returns the accepted URLs in insertion order.
func (f *Frontier) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.urls))
	copy(out, f.urls)
	return out
}

// Len returns the number of URLs in the frontier.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}
