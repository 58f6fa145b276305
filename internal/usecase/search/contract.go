package search

import (
	"context"

	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	// SearchRanked is the first retrieval tier: relevance-ranked
	// full-text matches.
	SearchRanked(ctx context.Context, query string) ([]scheme.Ranked, error)

	// SearchSubstring is the fallback tier, consulted only when the
	// ranked tier returns nothing.
	SearchSubstring(ctx context.Context, query string) ([]scheme.Record, error)

	ListByCategory(ctx context.Context, category string, limit int) ([]scheme.Record, error)

	RebuildSearchIndex(ctx context.Context) error
}

// RecordReader reads single records by slug. Satisfied by the plain
// repository or its caching decorator.
type RecordReader interface {
	GetBySlug(ctx context.Context, slug string) (scheme.Record, error)
}
