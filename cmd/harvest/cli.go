package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/harvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Contacts harvest.ContactService
	Journal  harvest.PageJournal
	Scraper  harvest.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape contacts from seed URLs and their internal links"`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP scraping service"`
	Export ExportCmd `cmd:"" help:"Export the persisted contact dataset"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string `arg:"" help:"Seed URLs to scrape"`
	MaxPages    int      `default:"10" help:"Pages to visit per seed, the seed included"`
	Concurrency int      `short:"c" default:"0" help:"Concurrent fetch limit (0 = unbounded)"`
	RPS         float64  `default:"0" help:"Per-domain requests per second (0 = unlimited)"`
	JSON        bool     `help:"Print results as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string  `default:":8080" env:"HARVEST_ADDR" help:"Listen address"`
	MaxPages    int     `default:"10" help:"Pages to visit per seed, the seed included"`
	Concurrency int     `short:"c" default:"0" help:"Concurrent fetch limit (0 = unbounded)"`
	RPS         float64 `default:"0" help:"Per-domain requests per second (0 = unlimited)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Format string `default:"csv" enum:"csv,json" help:"Output format (csv or json)"`
	Output string `short:"o" help:"Write to a file instead of stdout"`
}
