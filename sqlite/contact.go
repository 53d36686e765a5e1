package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ harvest.ContactService = (*ContactService)(nil)

// ContactService implements harvest.ContactService using SQLite.
type ContactService struct {
	db *DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *DB) *ContactService {
	return &ContactService{db: db}
}

// MergeContacts inserts the records not already present, deduplicated by
// (value, source_url) with existing rows taking precedence. The batch is
// merged in one transaction and the number of newly inserted rows is
// returned.
func (s *ContactService) MergeContacts(ctx context.Context, records []harvest.ContactRecord) (int, error) {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	added := 0
	for _, record := range records {
		ts := record.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		result, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO contacts (id, type, value, source_url, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.New().String(), string(record.Type), record.Value, record.SourceURL,
			ts.UTC().Format(time.RFC3339))
		if err != nil {
			return 0, err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return added, nil
}

// FindContacts retrieves the full dataset, newest first.
func (s *ContactService) FindContacts(ctx context.Context) ([]harvest.ContactRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, value, source_url, created_at
		FROM contacts
		ORDER BY created_at DESC, value ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []harvest.ContactRecord
	for rows.Next() {
		var record harvest.ContactRecord
		var typ, createdAt string

		if err := rows.Scan(&record.ID, &typ, &record.Value, &record.SourceURL, &createdAt); err != nil {
			return nil, err
		}

		record.Type = harvest.ContactType(typ)
		record.Timestamp, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
