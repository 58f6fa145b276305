// Package search implements the two-tier retrieval and the eligibility
// post-filter over stored scheme records.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// Request is one search invocation.
type Request struct {
	Query   string
	Profile scheme.Profile
	Limit   int
}

// Result carries the truncated page plus the untruncated match count.
type Result struct {
	Schemes []scheme.Ranked
	// Total counts eligible matches before truncation. Zero with a nil
	// Schemes slice is a legitimate empty result, not a failure.
	Total int
	// Limit is the page size actually applied after clamping.
	Limit int
}

// Service handles scheme retrieval and eligibility filtering.
type Service struct {
	repo         Repository
	records      RecordReader
	defaultLimit int
	maxLimit     int
}

// New creates a search service. records may be the repository itself
// or its caching decorator.
func New(repo Repository, records RecordReader, defaultLimit, maxLimit int) *Service {
	return &Service{
		repo:         repo,
		records:      records,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Search runs the ranked tier, falls back to substring matching only
// when the ranked tier finds nothing, applies the profile filter, and
// truncates. A store failure is returned as an error, never as an
// empty result.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Result{}, fmt.Errorf("query must not be empty: %w", domain.ErrInvalidQuery)
	}
	limit := s.clampLimit(req.Limit)

	matches, err := s.repo.SearchRanked(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("ranked tier: %w", err)
	}
	if len(matches) == 0 {
		recs, err := s.repo.SearchSubstring(ctx, query)
		if err != nil {
			return Result{}, fmt.Errorf("substring tier: %w", err)
		}
		matches = make([]scheme.Ranked, 0, len(recs))
		for _, rec := range recs {
			matches = append(matches, scheme.Ranked{Record: rec})
		}
	}

	matches = filterEligible(matches, req.Profile)

	res := Result{Total: len(matches), Schemes: matches, Limit: limit}
	if len(res.Schemes) > limit {
		res.Schemes = res.Schemes[:limit]
	}
	return res, nil
}

// GetBySlug returns one record by its slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (scheme.Record, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return scheme.Record{}, fmt.Errorf("slug must not be empty: %w", domain.ErrInvalidQuery)
	}
	return s.records.GetBySlug(ctx, slug)
}

// ListByCategory returns schemes in a category, ordered by name. A
// non-zero profile narrows the listing the same way it narrows search
// results.
func (s *Service) ListByCategory(ctx context.Context, category string, profile scheme.Profile, limit int) ([]scheme.Record, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("category must not be empty: %w", domain.ErrInvalidQuery)
	}
	clamped := s.clampLimit(limit)
	if profile.IsZero() {
		recs, err := s.repo.ListByCategory(ctx, category, clamped)
		if err != nil {
			return nil, fmt.Errorf("list by category: %w", err)
		}
		return recs, nil
	}

	// The eligibility filter runs after the query, so the fetch must
	// not be capped; a capped fetch could drop eligible rows that a
	// later page would have filled the limit with.
	recs, err := s.repo.ListByCategory(ctx, category, 0)
	if err != nil {
		return nil, fmt.Errorf("list by category: %w", err)
	}
	filtered := recs[:0]
	for _, rec := range recs {
		if scheme.Eligible(rec, profile) {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) > clamped {
		filtered = filtered[:clamped]
	}
	return filtered, nil
}

func filterEligible(matches []scheme.Ranked, profile scheme.Profile) []scheme.Ranked {
	if profile.IsZero() {
		return matches
	}
	filtered := matches[:0]
	for _, m := range matches {
		if scheme.Eligible(m.Record, profile) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// RebuildIndex forces a rebuild of the full-text index.
func (s *Service) RebuildIndex(ctx context.Context) error {
	if err := s.repo.RebuildSearchIndex(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}
