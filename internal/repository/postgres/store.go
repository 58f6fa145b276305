// Package postgres owns the pgx connection pool and schema bootstrap
// shared by the repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds connection parameters for the Postgres store.
type Config struct {
	DSN      string
	MaxConns int
}

// Store wraps a pgx pool. Repositories embed it via the narrow
// querier interfaces they declare themselves.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool to the repositories.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// schemaDDL is idempotent; EnsureSchema runs on every startup.
// array_to_string is only STABLE, so the generated tsvector column
// needs the IMMUTABLE wrapper.
const schemaDDL = `
CREATE OR REPLACE FUNCTION schemes_join(text[], text) RETURNS text
LANGUAGE sql IMMUTABLE AS 'SELECT array_to_string($1, $2)';

CREATE TABLE IF NOT EXISTS schemes (
	id                   bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	slug                 text NOT NULL UNIQUE,
	url                  text NOT NULL DEFAULT '',
	name                 text NOT NULL,
	description          text NOT NULL DEFAULT '',
	tags                 text[] NOT NULL DEFAULT '{}',
	states               text[] NOT NULL DEFAULT '{}',
	categories           text[] NOT NULL DEFAULT '{}',
	age_min              integer,
	age_max              integer,
	benefits             text,
	exclusions           text,
	application_process  text,
	eligibility          text,
	documents_required   text,
	gender               text NOT NULL DEFAULT '',
	caste_category       text NOT NULL DEFAULT '',
	is_minority          boolean,
	is_differently_abled boolean,
	is_bpl               boolean,
	is_student           boolean,
	created_at           timestamptz NOT NULL DEFAULT now(),
	search_tsv tsvector GENERATED ALWAYS AS (
		setweight(to_tsvector('english', name), 'A') ||
		setweight(to_tsvector('english', description), 'B') ||
		setweight(to_tsvector('english', schemes_join(tags, ' ')), 'C') ||
		setweight(to_tsvector('english', schemes_join(categories, ' ')), 'C')
	) STORED
);

CREATE INDEX IF NOT EXISTS schemes_search_tsv_idx ON schemes USING gin (search_tsv);
CREATE INDEX IF NOT EXISTS schemes_categories_idx ON schemes USING gin (categories);
`

// EnsureSchema creates the schemes table and its indexes if absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsConnectionFailure reports whether err means the store is
// unreachable rather than the statement being wrong. SQLSTATE class 08
// covers server-side connection exceptions; the net checks cover
// failures before a session exists.
func IsConnectionFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
