package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/csv"
	"github.com/fwojciec/harvest/extract"
	"github.com/fwojciec/harvest/goquery"
	harvesthttp "github.com/fwojciec/harvest/http"
	harvestslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Contact store backend, "csv" or "sqlite". Set before calling Run().
	Store string

	// Dataset path for the selected backend.
	DataPath string

	// SQLite database, open only for the sqlite backend.
	DB *sqlite.DB

	// Contact dataset used by commands, exposed for end-to-end testing.
	Contacts harvest.ContactService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	store := os.Getenv("HARVEST_STORE")
	if store == "" {
		store = "csv"
	}
	return &Main{
		Store:    store,
		DataPath: defaultDataPath(store),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'harvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open the contact store.
	switch m.Store {
	case "sqlite":
		m.DB = sqlite.NewDB(m.DataPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set HARVEST_DATA to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DataPath, err)
		}
		m.Contacts = sqlite.NewContactService(m.DB)
		deps.Journal = sqlite.NewPageJournal(m.DB)
	case "csv":
		m.Contacts = csv.NewStore(m.DataPath)
	default:
		return fmt.Errorf("unknown store %q: expected csv or sqlite", m.Store)
	}
	defer m.Close()

	deps.Contacts = harvestslog.NewLoggingContactService(m.Contacts, deps.Logger)

	// Wire the scraping pipeline for the commands that crawl.
	switch cmd {
	case "scrape":
		deps.Scraper = m.newScraper(deps.Logger, cli.Scrape.MaxPages, cli.Scrape.Concurrency, cli.Scrape.RPS)
	case "serve":
		deps.Scraper = m.newScraper(deps.Logger, cli.Serve.MaxPages, cli.Serve.Concurrency, cli.Serve.RPS)
	}

	return kongCtx.Run(deps)
}

// newScraper assembles the fetch+extract pipeline behind harvest.Scraper.
func (m *Main) newScraper(logger *slog.Logger, maxPages, concurrency int, rps float64) harvest.Scraper {
	fetcher := harvestslog.NewLoggingFetcher(harvesthttp.NewFetcher(), logger)

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Text:        goquery.NewText(),
		Contacts:    extract.NewExtractor(),
		Links:       goquery.NewLinks(),
		Sitemaps:    harvesthttp.NewSitemap(nil),
		MaxPages:    maxPages,
		Concurrency: concurrency,
		Logger:      logger,
	}
	if rps > 0 {
		crawler.Limiter = crawl.NewDomainLimiter(rps)
	}

	return harvestslog.NewLoggingScraper(crawler, logger)
}

func defaultDataPath(store string) string {
	if path := os.Getenv("HARVEST_DATA"); path != "" {
		return path
	}
	if store == "sqlite" {
		return "harvest.db"
	}
	return "scraped_data.csv"
}
