package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingContactService implements harvest.ContactService.
var _ harvest.ContactService = (*LoggingContactService)(nil)

// LoggingContactService wraps a ContactService with operational logging.
type LoggingContactService struct {
	next   harvest.ContactService
	logger *slog.Logger
}

// NewLoggingContactService creates a new LoggingContactService.
func NewLoggingContactService(next harvest.ContactService, logger *slog.Logger) *LoggingContactService {
	return &LoggingContactService{next: next, logger: logger}
}

// MergeContacts delegates to the wrapped service and logs the operation.
func (s *LoggingContactService) MergeContacts(ctx context.Context, records []harvest.ContactRecord) (added int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("contact merge",
			"records", len(records),
			"added", added,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MergeContacts(ctx, records)
}

// FindContacts delegates to the wrapped service and logs the operation.
func (s *LoggingContactService) FindContacts(ctx context.Context) (records []harvest.ContactRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("contact lookup",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindContacts(ctx)
}
