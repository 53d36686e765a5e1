package harvest

import "context"

// Contacts holds the contact values extracted from one page's text.
// Both slices are deduplicated and preserve first-match order.
type Contacts struct {
	Emails []string
	Phones []string
}

// ContactExtractor extracts contact values from visible page text.
// Input must already be stripped of markup, scripts, and stylesheets.
type ContactExtractor interface {
	// Extract is pure: no I/O, no error cases.
	Extract(text string) Contacts
}

// TextExtractor reduces raw HTML to visible text. Script and style
// subtrees are removed so their contents never reach contact matching.
type TextExtractor interface {
	Text(html string) (string, error)
}

// LinkSource extracts hyperlink targets from an HTML page.
type LinkSource interface {
	// Links returns the absolute, fragment-stripped targets of all
	// anchors on the page that share the base URL's registrable domain,
	// deduplicated in document order. The page's own URL is not included.
	Links(html string, baseURL string) ([]string, error)
}

// SitemapSource discovers page URLs from a site's sitemap.
type SitemapSource interface {
	// URLs returns up to limit URLs from the sitemap of the site the
	// seed belongs to, filtered to the seed's registrable domain.
	URLs(ctx context.Context, seed string, limit int) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
