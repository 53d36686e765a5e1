package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.ContactService = (*ContactService)(nil)

// ContactService is a mock implementation of harvest.ContactService.
type ContactService struct {
	MergeContactsFn func(ctx context.Context, records []harvest.ContactRecord) (int, error)
	FindContactsFn  func(ctx context.Context) ([]harvest.ContactRecord, error)
}

func (s *ContactService) MergeContacts(ctx context.Context, records []harvest.ContactRecord) (int, error) {
	return s.MergeContactsFn(ctx, records)
}

func (s *ContactService) FindContacts(ctx context.Context) ([]harvest.ContactRecord, error) {
	return s.FindContactsFn(ctx)
}

var _ harvest.PageJournal = (*PageJournal)(nil)

// PageJournal is a mock implementation of harvest.PageJournal.
type PageJournal struct {
	RecordPagesFn func(ctx context.Context, results []harvest.PageResult) error
}

func (j *PageJournal) RecordPages(ctx context.Context, results []harvest.PageResult) error {
	return j.RecordPagesFn(ctx, results)
}
