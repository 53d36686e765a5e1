package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.LinkSource = (*LinkSource)(nil)

// LinkSource is a mock implementation of harvest.LinkSource.
type LinkSource struct {
	LinksFn func(html string, baseURL string) ([]string, error)
}

func (s *LinkSource) Links(html string, baseURL string) ([]string, error) {
	return s.LinksFn(html, baseURL)
}

var _ harvest.SitemapSource = (*SitemapSource)(nil)

// SitemapSource is a mock implementation of harvest.SitemapSource.
type SitemapSource struct {
	URLsFn func(ctx context.Context, seed string, limit int) ([]string, error)
}

func (s *SitemapSource) URLs(ctx context.Context, seed string, limit int) ([]string, error) {
	return s.URLsFn(ctx, seed, limit)
}
