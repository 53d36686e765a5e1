package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	harvesthttp "github.com/fwojciec/harvest/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemap_URLs(t *testing.T) {
	t.Parallel()

	t.Run("reads a urlset sitemap", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
				<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
					<url><loc>%[1]s/contact</loc></url>
					<url><loc>%[1]s/about</loc></url>
					<url><loc>https://elsewhere.invalid/page</loc></url>
				</urlset>`, server.URL)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		sm := harvesthttp.NewSitemap(nil)
		urls, err := sm.URLs(context.Background(), server.URL+"/", 10)
		require.NoError(t, err)

		assert.Equal(t, []string{server.URL + "/contact", server.URL + "/about"}, urls)
	})

	t.Run("caps output at limit", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<urlset>`)
			for i := 0; i < 20; i++ {
				fmt.Fprintf(w, `<url><loc>%s/page%d</loc></url>`, server.URL, i)
			}
			fmt.Fprint(w, `</urlset>`)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		sm := harvesthttp.NewSitemap(nil)
		urls, err := sm.URLs(context.Background(), server.URL+"/", 5)
		require.NoError(t, err)

		assert.Len(t, urls, 5)
	})

	t.Run("follows a sitemap index one level", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<sitemapindex>
				<sitemap><loc>%s/sitemap-pages.xml</loc></sitemap>
			</sitemapindex>`, server.URL)
		})
		mux.HandleFunc("/sitemap-pages.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<urlset>
				<url><loc>%s/deep</loc></url>
			</urlset>`, server.URL)
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		sm := harvesthttp.NewSitemap(nil)
		urls, err := sm.URLs(context.Background(), server.URL+"/", 10)
		require.NoError(t, err)

		assert.Equal(t, []string{server.URL + "/deep"}, urls)
	})

	t.Run("missing sitemap is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		sm := harvesthttp.NewSitemap(nil)
		_, err := sm.URLs(context.Background(), server.URL+"/", 10)
		assert.Error(t, err)
	})

	t.Run("malformed XML is an error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<urlset><url>`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		sm := harvesthttp.NewSitemap(nil)
		_, err := sm.URLs(context.Background(), server.URL+"/", 10)
		assert.Error(t, err)
	})
}
