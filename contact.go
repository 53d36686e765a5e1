package harvest

import (
	"context"
	"time"
)

// ContactType identifies the kind of contact value in a record.
type ContactType string

// Supported contact types.
const (
	ContactEmail ContactType = "Email"
	ContactPhone ContactType = "Phone"
)

// Valid reports whether t is a known contact type.
func (t ContactType) Valid() bool {
	return t == ContactEmail || t == ContactPhone
}

// ContactRecord is a single persisted contact fact: a value of a given type
// found on a source page at a point in time.
type ContactRecord struct {
	ID        string      `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Type      ContactType `json:"type"`
	Value     string      `json:"value"`
	SourceURL string      `json:"sourceUrl"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ContactRecord) Validate() error {
	if !r.Type.Valid() {
		return Errorf(EINVALID, "contact type %q not recognized", r.Type)
	}
	if r.Value == "" {
		return Errorf(EINVALID, "contact value required")
	}
	if r.SourceURL == "" {
		return Errorf(EINVALID, "contact source URL required")
	}
	return nil
}

// Key returns the deduplication key for the record. No two persisted
// records may share a key; on conflict the earliest-seen record wins.
func (r *ContactRecord) Key() string {
	return r.Value + "\x00" + r.SourceURL
}

// ContactService manages the persisted contact dataset. Implementations
// must serialize MergeContacts and FindContacts so that a reader never
// observes a partially merged dataset.
type ContactService interface {
	// MergeContacts merges records into the dataset, deduplicating by
	// (value, source URL) with existing records taking precedence.
	// It returns the number of newly added records. Merging the same
	// records twice is a no-op on the second call.
	MergeContacts(ctx context.Context, records []ContactRecord) (int, error)

	// FindContacts returns the full dataset ordered by timestamp
	// descending.
	FindContacts(ctx context.Context) ([]ContactRecord, error)
}
