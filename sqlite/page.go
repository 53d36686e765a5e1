package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var _ harvest.PageJournal = (*PageJournal)(nil)

// PageJournal records per-URL fetch outcomes in SQLite. Each URL keeps
// only its most recent outcome, so the journal answers "when did we last
// see this page and did it work" without growing unboundedly.
type PageJournal struct {
	db *DB
}

// NewPageJournal creates a new PageJournal.
func NewPageJournal(db *DB) *PageJournal {
	return &PageJournal{db: db}
}

// RecordPages upserts one row per result, overwriting any previous
// outcome for the same URL.
func (j *PageJournal) RecordPages(ctx context.Context, results []harvest.PageResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, result := range results {
		fetchedAt := result.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO pages (url, content_hash, error, fetched_at)
			VALUES (?, ?, ?, ?)
		`, result.URL, result.ContentHash, result.Error,
			fetchedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindPage returns the recorded outcome for a URL.
func (j *PageJournal) FindPage(ctx context.Context, url string) (*harvest.PageResult, error) {
	var result harvest.PageResult
	var fetchedAt string

	err := j.db.QueryRowContext(ctx, `
		SELECT url, content_hash, error, fetched_at
		FROM pages
		WHERE url = ?
	`, url).Scan(&result.URL, &result.ContentHash, &result.Error, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no journal entry for %s", url)
	}
	if err != nil {
		return nil, err
	}

	result.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
