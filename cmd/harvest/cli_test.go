package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("harvest"), kong.Exit(func(int) {}))
	require.NoError(t, err)
	return parser
}

func TestCLI_Parse(t *testing.T) {
	t.Parallel()

	t.Run("scrape defaults", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		_, err := newParser(t, cli).Parse([]string{"scrape", "example.com", "other.org"})
		require.NoError(t, err)

		assert.Equal(t, []string{"example.com", "other.org"}, cli.Scrape.URLs)
		assert.Equal(t, 10, cli.Scrape.MaxPages)
		assert.Equal(t, 0, cli.Scrape.Concurrency)
		assert.Equal(t, 0.0, cli.Scrape.RPS)
		assert.False(t, cli.Scrape.JSON)
	})

	t.Run("scrape flags", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		_, err := newParser(t, cli).Parse([]string{
			"scrape", "--max-pages", "5", "-c", "4", "--rps", "2.5", "--json", "example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, 5, cli.Scrape.MaxPages)
		assert.Equal(t, 4, cli.Scrape.Concurrency)
		assert.Equal(t, 2.5, cli.Scrape.RPS)
		assert.True(t, cli.Scrape.JSON)
	})

	t.Run("scrape requires at least one URL", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		_, err := newParser(t, cli).Parse([]string{"scrape"})
		assert.Error(t, err)
	})

	t.Run("serve defaults", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		_, err := newParser(t, cli).Parse([]string{"serve"})
		require.NoError(t, err)

		assert.Equal(t, ":8080", cli.Serve.Addr)
	})

	t.Run("export format is validated", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		_, err := newParser(t, cli).Parse([]string{"export", "--format", "xlsx"})
		assert.Error(t, err)
	})
}
