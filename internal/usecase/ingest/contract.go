package ingest

import (
	"context"

	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// Repository defines the storage contract for ingestion.
type Repository interface {
	// Insert writes one record. It returns domain.ErrDuplicate on a
	// slug collision and domain.ErrStoreUnavailable on connection-class
	// failures.
	Insert(ctx context.Context, rec scheme.Record) error
}
