// Package harvest walks the external scheme catalog page by page and
// feeds normalized records into the ingestion path.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/catalog"
	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	"github.com/kailas-cloud/schemedex/internal/metrics"
	"github.com/kailas-cloud/schemedex/internal/usecase/ingest"
)

// Catalog is the slice of the catalog client the harvester consumes.
type Catalog interface {
	List(ctx context.Context, offset, size int) (catalog.Page, error)
	Detail(ctx context.Context, slug string) (catalog.Detail, error)
}

// Sink is the slice of the ingest service the harvester consumes.
type Sink interface {
	Ingest(ctx context.Context, rec scheme.Record) (ingest.Outcome, error)
}

// Summary accounts for one complete run.
type Summary struct {
	CatalogTotal      int
	PagesFetched      int
	PagesSkipped      int
	MissingSlugs      int
	DetailsSkipped    int
	RecordsEmitted    int
	DegradedRecords   int
	Inserted          int
	DuplicatesSkipped int
	Failed            int
}

type taskKind int

const (
	taskPage taskKind = iota
	taskDetail
)

// task is one unit of crawl work. Page tasks expand into detail tasks;
// detail tasks expand into ingested records.
type task struct {
	kind    taskKind
	offset  int
	summary catalog.Summary
}

// Harvester drains an in-memory task queue sequentially. The catalog
// client owns pacing between requests, so concurrency here would only
// serialize behind it.
type Harvester struct {
	catalog       Catalog
	sink          Sink
	pageSize      int
	publicURLBase string
	logger        *zap.Logger
}

// New creates a harvester. pageSize must match the listing size the
// catalog client requests; publicURLBase forms the canonical record
// URL from the slug.
func New(cat Catalog, sink Sink, pageSize int, publicURLBase string, logger *zap.Logger) *Harvester {
	return &Harvester{catalog: cat, sink: sink, pageSize: pageSize, publicURLBase: publicURLBase, logger: logger}
}

// Run crawls the whole catalog once. Failed pages and details are
// skipped and counted; only context cancellation and a store outage
// abort the run.
func (h *Harvester) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	queue := []task{{kind: taskPage, offset: 0}}
	seededRemaining := false

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		t := queue[0]
		queue = queue[1:]

		switch t.kind {
		case taskPage:
			page, err := h.catalog.List(ctx, t.offset, h.pageSize)
			if err != nil {
				sum.PagesSkipped++
				metrics.PagesTotal.WithLabelValues("skipped").Inc()
				h.logger.Warn("listing page skipped",
					zap.Int("offset", t.offset),
					zap.Bool("rate_limited", catalog.IsRateLimited(err)),
					zap.Error(err))
				continue
			}
			sum.PagesFetched++
			metrics.PagesTotal.WithLabelValues("ok").Inc()

			// The first successful page carries the grand total; seed
			// the remaining page tasks exactly once from it.
			if !seededRemaining {
				seededRemaining = true
				sum.CatalogTotal = page.Total
				for off := t.offset + h.pageSize; off < page.Total; off += h.pageSize {
					queue = append(queue, task{kind: taskPage, offset: off})
				}
			}
			for _, item := range page.Items {
				// A summary without a slug cannot be fetched or
				// stored.
				if strings.TrimSpace(item.Slug) == "" {
					sum.MissingSlugs++
					h.logger.Warn("listing item without slug dropped",
						zap.Int("offset", t.offset),
						zap.String("name", item.Name))
					continue
				}
				queue = append(queue, task{kind: taskDetail, summary: item})
			}

		case taskDetail:
			if err := h.ingestOne(ctx, t.summary, &sum); err != nil {
				return sum, err
			}
		}
	}

	h.logger.Info("harvest run complete",
		zap.Int("catalog_total", sum.CatalogTotal),
		zap.Int("pages_fetched", sum.PagesFetched),
		zap.Int("pages_skipped", sum.PagesSkipped),
		zap.Int("missing_slugs", sum.MissingSlugs),
		zap.Int("details_skipped", sum.DetailsSkipped),
		zap.Int("records_emitted", sum.RecordsEmitted),
		zap.Int("degraded_records", sum.DegradedRecords),
		zap.Int("inserted", sum.Inserted),
		zap.Int("duplicates_skipped", sum.DuplicatesSkipped),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

func (h *Harvester) ingestOne(ctx context.Context, item catalog.Summary, sum *Summary) error {
	det, err := h.catalog.Detail(ctx, item.Slug)
	if err != nil {
		sum.DetailsSkipped++
		h.logger.Warn("detail skipped",
			zap.String("slug", item.Slug),
			zap.Bool("rate_limited", catalog.IsRateLimited(err)),
			zap.Error(err))
		return nil
	}

	rec := normalize(item, det, h.publicURLBase)
	if degraded := rec.DegradedFields(); len(degraded) > 0 {
		sum.DegradedRecords++
		for _, f := range degraded {
			metrics.DegradedFieldsTotal.WithLabelValues(f).Inc()
		}
	}
	sum.RecordsEmitted++
	metrics.RecordsEmittedTotal.Inc()

	out, err := h.sink.Ingest(ctx, rec)
	switch {
	case err != nil && errors.Is(err, domain.ErrStoreUnavailable):
		return fmt.Errorf("store lost mid-run at %q: %w", rec.Slug, err)
	case err != nil:
		sum.Failed++
		h.logger.Warn("record not stored", zap.String("slug", rec.Slug), zap.Error(err))
	case out == ingest.DuplicateSkipped:
		sum.DuplicatesSkipped++
	default:
		sum.Inserted++
	}
	return nil
}
