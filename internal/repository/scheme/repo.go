// Package scheme persists scheme records in Postgres and serves both
// retrieval tiers of the search engine.
package scheme

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/schemedex/internal/domain"
	domscheme "github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/repository/postgres"
)

// querier is the consumer interface over the pgx pool (ISP).
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements the ingest and search repository contracts.
type Repo struct {
	q querier
}

// New creates a scheme repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

const insertSQL = `INSERT INTO schemes (
	slug, url, name, description, tags, states, categories,
	age_min, age_max,
	benefits, exclusions, application_process, eligibility, documents_required,
	gender, caste_category, is_minority, is_differently_abled, is_bpl, is_student
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
)`

// Insert writes one record. A slug collision surfaces as
// domain.ErrDuplicate; an unreachable store as domain.ErrStoreUnavailable.
func (r *Repo) Insert(ctx context.Context, rec domscheme.Record) error {
	if _, err := r.q.Exec(ctx, insertSQL, insertArgs(rec)...); err != nil {
		return classify("insert "+rec.Slug, err)
	}
	return nil
}

// GetBySlug returns one record by its unique slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domscheme.Record, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM schemes WHERE slug = $1`, slug)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domscheme.Record{}, fmt.Errorf("slug %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return domscheme.Record{}, classify("get "+slug, err)
	}
	return rec, nil
}

// ListByCategory returns records whose category list contains a
// case-insensitive match of category, ordered by name. A limit of zero
// or less returns every match; callers that post-filter need the full
// set before truncating.
func (r *Repo) ListByCategory(ctx context.Context, category string, limit int) ([]domscheme.Record, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+recordColumns+` FROM schemes
		 WHERE EXISTS (SELECT 1 FROM unnest(categories) c WHERE c ILIKE $1)
		 ORDER BY name ASC
		 LIMIT NULLIF($2, 0)`, category, max(limit, 0))
	if err != nil {
		return nil, classify("list by category", err)
	}
	recs, err := collectRecords(rows)
	if err != nil {
		return nil, classify("list by category", err)
	}
	return recs, nil
}

// SearchRanked is the first retrieval tier: weighted full-text search
// ranked by relevance, name as the tiebreaker.
func (r *Repo) SearchRanked(ctx context.Context, query string) ([]domscheme.Ranked, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+recordColumns+`,
		        ts_rank(search_tsv, websearch_to_tsquery('english', $1)) AS rank
		 FROM schemes
		 WHERE search_tsv @@ websearch_to_tsquery('english', $1)
		 ORDER BY rank DESC, name ASC`, query)
	if err != nil {
		return nil, classify("search ranked", err)
	}
	defer rows.Close()

	var out []domscheme.Ranked
	for rows.Next() {
		var rk domscheme.Ranked
		rec := &rk.Record
		err := rows.Scan(
			&rec.Slug, &rec.URL, &rec.Name, &rec.Description,
			&rec.Tags, &rec.States, &rec.Categories,
			&rec.AgeMin, &rec.AgeMax,
			&rec.Benefits, &rec.Exclusions, &rec.ApplicationProcess,
			&rec.Eligibility, &rec.DocumentsRequired,
			&rec.Gender, &rec.CasteCategory,
			&rec.IsMinority, &rec.IsDifferentlyAbled, &rec.IsBPL, &rec.IsStudent,
			&rk.Score,
		)
		if err != nil {
			return nil, classify("search ranked", err)
		}
		out = append(out, rk)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("search ranked", err)
	}
	return out, nil
}

// SearchSubstring is the fallback tier: case-insensitive substring
// match over name, description and tags, ordered by name.
func (r *Repo) SearchSubstring(ctx context.Context, query string) ([]domscheme.Record, error) {
	pattern := "%" + query + "%"
	rows, err := r.q.Query(ctx,
		`SELECT `+recordColumns+` FROM schemes
		 WHERE name ILIKE $1
		    OR description ILIKE $1
		    OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $1)
		 ORDER BY name ASC`, pattern)
	if err != nil {
		return nil, classify("search substring", err)
	}
	recs, err := collectRecords(rows)
	if err != nil {
		return nil, classify("search substring", err)
	}
	return recs, nil
}

// RebuildSearchIndex forces a rebuild of the full-text index.
func (r *Repo) RebuildSearchIndex(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `REINDEX INDEX schemes_search_tsv_idx`); err != nil {
		return classify("reindex", err)
	}
	return nil
}

// classify maps storage failures onto the domain sentinels the
// usecases branch on, keeping the driver error in the chain.
func classify(op string, err error) error {
	switch {
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case postgres.IsConnectionFailure(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
