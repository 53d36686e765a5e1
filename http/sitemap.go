package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/beevik/etree"
	"github.com/fwojciec/harvest"
)

// Ensure Sitemap implements harvest.SitemapSource at compile time.
var _ harvest.SitemapSource = (*Sitemap)(nil)

// maxChildSitemaps caps how many child sitemaps of a sitemap index are
// consulted. Link discovery is bounded by a small page budget, so one
// level and a few children is plenty.
const maxChildSitemaps = 3

// Sitemap discovers page URLs from a site's /sitemap.xml. It is used as a
// fallback when a seed page exposes no same-domain anchors.
type Sitemap struct {
	client    *http.Client
	userAgent string
}

// NewSitemap creates a new Sitemap source with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemap(client *http.Client) *Sitemap {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Sitemap{client: client, userAgent: DefaultUserAgent}
}

// URLs fetches <scheme>://<host>/sitemap.xml for the seed's site and
// returns up to limit URLs from it, filtered to the seed's registrable
// domain. A sitemap index is followed one level deep. Missing or
// malformed sitemaps yield an error; callers degrade gracefully.
func (s *Sitemap) URLs(ctx context.Context, seed string, limit int) ([]string, error) {
	base, err := url.Parse(seed)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid seed URL: %v", err)
	}

	sitemapURL := fmt.Sprintf("%s://%s/sitemap.xml", base.Scheme, base.Host)

	doc, err := s.fetchXML(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	switch root := doc.Root(); {
	case root == nil:
		return nil, harvest.Errorf(harvest.EINVALID, "empty sitemap at %s", sitemapURL)
	case root.Tag == "sitemapindex":
		for i, child := range locValues(root, "sitemap") {
			if i >= maxChildSitemaps || len(urls) >= limit {
				break
			}
			childDoc, err := s.fetchXML(ctx, child)
			if err != nil {
				continue
			}
			if childRoot := childDoc.Root(); childRoot != nil {
				urls = appendSameDomain(urls, locValues(childRoot, "url"), seed, limit)
			}
		}
	default:
		urls = appendSameDomain(urls, locValues(root, "url"), seed, limit)
	}

	return urls, nil
}

func (s *Sitemap) fetchXML(ctx context.Context, rawURL string) (*etree.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "malformed sitemap at %s: %v", rawURL, err)
	}
	return doc, nil
}

// locValues returns the <loc> text of every <entryTag> child of root.
func locValues(root *etree.Element, entryTag string) []string {
	var locs []string
	for _, entry := range root.SelectElements(entryTag) {
		if loc := entry.SelectElement("loc"); loc != nil {
			if text := loc.Text(); text != "" {
				locs = append(locs, text)
			}
		}
	}
	return locs
}

func appendSameDomain(urls, candidates []string, seed string, limit int) []string {
	for _, candidate := range candidates {
		if len(urls) >= limit {
			break
		}
		if !harvest.SameDomain(seed, candidate) {
			continue
		}
		urls = append(urls, candidate)
	}
	return urls
}
