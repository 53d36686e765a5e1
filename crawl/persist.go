package crawl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/harvest"
)

// Ensure Persister implements harvest.ResultSink at compile time.
var _ harvest.ResultSink = (*Persister)(nil)

// Persister merges crawl results into the contact dataset asynchronously,
// off the response path. Store errors are logged and swallowed:
// persistence is best-effort and must never fail a crawl response.
type Persister struct {
	store   harvest.ContactService
	journal harvest.PageJournal
	logger  *slog.Logger

	jobs chan []harvest.PageResult
	wg   sync.WaitGroup
	once sync.Once
}

// PersisterOption configures a Persister.
type PersisterOption func(*Persister)

// WithJournal sets an optional page journal that records per-URL fetch
// outcomes alongside the merged contacts.
func WithJournal(journal harvest.PageJournal) PersisterOption {
	return func(p *Persister) {
		p.journal = journal
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) PersisterOption {
	return func(p *Persister) {
		p.logger = logger
	}
}

// NewPersister creates a Persister writing to store and starts its worker.
// Call Close to drain pending jobs and stop the worker.
func NewPersister(store harvest.ContactService, opts ...PersisterOption) *Persister {
	p := &Persister{
		store: store,
		jobs:  make(chan []harvest.PageResult, 16),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Enqueue hands crawl results to the background worker. It must not be
// called after Close.
func (p *Persister) Enqueue(results []harvest.PageResult) {
	p.jobs <- results
}

// Close drains pending jobs and stops the worker. Safe to call more than
// once.
func (p *Persister) Close() error {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
	return nil
}

func (p *Persister) run() {
	defer p.wg.Done()

	// Persistence outlives the request that produced the results, so the
	// worker uses its own context.
	ctx := context.Background()

	for results := range p.jobs {
		if p.journal != nil {
			if err := p.journal.RecordPages(ctx, results); err != nil {
				p.logger.Error("page journal update failed", "pages", len(results), "err", err)
			}
		}

		records := Flatten(results)
		if len(records) == 0 {
			continue
		}

		added, err := p.store.MergeContacts(ctx, records)
		if err != nil {
			p.logger.Error("contact merge failed", "records", len(records), "err", err)
			continue
		}
		p.logger.Info("contacts persisted", "records", len(records), "added", added)
	}
}
