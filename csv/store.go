// Package csv provides a CSV-file implementation of the contact dataset.
// The file doubles as the export format, so the dataset is usable
// directly in a spreadsheet.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/harvest"
)

// Header is the first row of every dataset file.
var Header = []string{"Timestamp", "Type", "Value", "Source URL"}

// Ensure Store implements harvest.ContactService at compile time.
var _ harvest.ContactService = (*Store)(nil)

// Store persists contact records in a single CSV file. Writes are
// read-modify-write under a mutex, so concurrent merges never interleave,
// and the file is replaced atomically via a temp file rename.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store backed by the CSV file at path. The file is
// created on the first merge.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the dataset file path.
func (s *Store) Path() string {
	return s.path
}

// MergeContacts appends the records not already present in the dataset,
// deduplicated by (value, source URL) with the first-seen record winning.
// It returns the number of records added.
func (s *Store) MergeContacts(ctx context.Context, records []harvest.ContactRecord) (int, error) {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		seen[record.Key()] = struct{}{}
	}

	added := 0
	for _, record := range records {
		if _, ok := seen[record.Key()]; ok {
			continue
		}
		seen[record.Key()] = struct{}{}
		existing = append(existing, record)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	sortRecords(existing)
	if err := s.write(existing); err != nil {
		return 0, err
	}
	return added, nil
}

// FindContacts returns every record in the dataset, newest first.
func (s *Store) FindContacts(ctx context.Context) ([]harvest.ContactRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

// sortRecords orders newest first, with a value tiebreak so equal inputs
// always produce the same file.
func sortRecords(records []harvest.ContactRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].Value < records[j].Value
	})
}

// load reads the dataset file. A missing file is an empty dataset.
func (s *Store) load() ([]harvest.ContactRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, harvest.Errorf(harvest.EINTERNAL, "reading dataset header: %v", err)
	}

	var records []harvest.ContactRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, harvest.Errorf(harvest.EINTERNAL, "reading dataset row: %v", err)
		}

		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, harvest.Errorf(harvest.EINTERNAL, "parsing dataset timestamp %q: %v", row[0], err)
		}
		records = append(records, harvest.ContactRecord{
			Timestamp: ts,
			Type:      harvest.ContactType(row[1]),
			Value:     row[2],
			SourceURL: row[3],
		})
	}
	return records, nil
}

// write replaces the dataset file atomically.
func (s *Store) write(records []harvest.ContactRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return err
	}
	for _, record := range records {
		row := []string{
			record.Timestamp.UTC().Format(time.RFC3339),
			string(record.Type),
			record.Value,
			record.SourceURL,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
