// Package ingest turns harvester candidates into durably stored,
// deduplicated records.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/metrics"
)

// Outcome classifies one ingestion attempt.
type Outcome int

const (
	// Inserted: the record was written and indexed.
	Inserted Outcome = iota
	// DuplicateSkipped: the slug already exists; the stored record is
	// kept untouched and the run continues.
	DuplicateSkipped
	// Failed: the record was not stored.
	Failed
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case DuplicateSkipped:
		return "duplicate_skipped"
	default:
		return "failed"
	}
}

// Service handles the write side of the pipeline.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an ingest service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Ingest validates and persists one candidate. A duplicate slug is an
// expected, non-fatal outcome; a store connection failure is returned
// as an error wrapping domain.ErrStoreUnavailable so the caller can
// abort the run.
func (s *Service) Ingest(ctx context.Context, rec scheme.Record) (Outcome, error) {
	if err := rec.Validate(); err != nil {
		metrics.IngestOutcomesTotal.WithLabelValues(Failed.String()).Inc()
		return Failed, fmt.Errorf("invalid candidate: %w", err)
	}

	err := s.repo.Insert(ctx, rec)
	switch {
	case err == nil:
		metrics.IngestOutcomesTotal.WithLabelValues(Inserted.String()).Inc()
		return Inserted, nil

	case errors.Is(err, domain.ErrDuplicate):
		metrics.IngestOutcomesTotal.WithLabelValues(DuplicateSkipped.String()).Inc()
		s.logger.Info("duplicate slug skipped", zap.String("slug", rec.Slug))
		return DuplicateSkipped, nil

	default:
		metrics.IngestOutcomesTotal.WithLabelValues(Failed.String()).Inc()
		return Failed, fmt.Errorf("insert %q: %w", rec.Slug, err)
	}
}
