// Package catalog implements the remote catalog client: paginated
// listing, per-scheme detail, bounded retry with backoff, and the
// deliberate inter-request delay that keeps the crawl inside the
// source's rate limits.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/config"
	"github.com/kailas-cloud/schemedex/internal/domain"
	"github.com/kailas-cloud/schemedex/internal/metrics"
)

const apiKeyHeader = "x-api-key"

// Client talks to the remote catalog. Safe for use from a single
// goroutine; the harvester issues one request at a time by design.
type Client struct {
	http          *http.Client
	baseURL       string
	detailBaseURL string
	apiKey        string

	listingDelay time.Duration
	detailDelay  time.Duration
	maxRetries   int
	backoffBase  time.Duration
	backoffMax   time.Duration

	logger *zap.Logger

	mu      sync.Mutex
	lastReq time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a catalog client from config.
func New(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	detailBase := cfg.DetailBaseURL
	if detailBase == "" {
		detailBase = cfg.BaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		baseURL:       cfg.BaseURL,
		detailBaseURL: detailBase,
		apiKey:        cfg.APIKey,
		listingDelay:  time.Duration(cfg.ListingDelayMs) * time.Millisecond,
		detailDelay:   time.Duration(cfg.DetailDelayMs) * time.Millisecond,
		maxRetries:    cfg.MaxRetries,
		backoffBase:   time.Duration(cfg.BackoffBaseSec) * time.Second,
		backoffMax:    time.Duration(cfg.BackoffMaxSec) * time.Second,
		logger:        logger,
		sleep:         sleepCtx,
	}
}

// List fetches one listing page at the given offset. The first call of
// a run (offset 0) also learns the catalog total.
func (c *Client) List(ctx context.Context, offset, size int) (Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	q.Set("lang", "en")
	q.Set("from", strconv.Itoa(offset))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, "listing", u.String(), c.listingDelay)
	if err != nil {
		return Page{}, err
	}

	var lr listingResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return Page{}, fmt.Errorf("parse listing payload: %w", err)
	}

	page := Page{Total: lr.Data.Summary.Total}
	for _, it := range lr.Data.Hits.Items {
		page.Items = append(page.Items, Summary{
			Slug:        it.Fields.Slug,
			Name:        it.Fields.SchemeName,
			Tags:        it.Fields.Tags,
			States:      it.Fields.BeneficiaryState,
			Categories:  it.Fields.SchemeCategory,
			Description: it.Fields.BriefDescription,
			Age:         it.Fields.Age,
		})
	}
	return page, nil
}

// Detail fetches the long-form fields for one slug. Extraction is
// field-by-field: a section missing from the payload yields a nil
// field, never an error.
func (c *Client) Detail(ctx context.Context, slug string) (Detail, error) {
	u := c.detailBaseURL + "/" + url.PathEscape(slug) + ".json?slug=" + url.QueryEscape(slug)

	body, err := c.get(ctx, "detail", u, c.detailDelay)
	if err != nil {
		return Detail{}, err
	}

	var dr detailResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return Detail{}, fmt.Errorf("parse detail payload for %q: %w", slug, err)
	}
	return dr.toDetail(), nil
}

// get issues one GET with the API key header, enforcing the minimum
// inter-request delay and the bounded retry policy. On exhausted
// retries the last error is returned and the caller skips the item.
func (c *Client) get(ctx context.Context, kind, rawURL string, minDelay time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.CatalogRetriesTotal.WithLabelValues(kind).Inc()
			wait := c.backoff(attempt)
			c.logger.Warn("catalog request retry",
				zap.String("kind", kind),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		if err := c.pace(ctx, minDelay); err != nil {
			return nil, err
		}

		body, status, err := c.doGET(ctx, rawURL)
		metrics.CatalogRequestsTotal.WithLabelValues(kind, strconv.Itoa(status)).Inc()

		switch {
		case err == nil && status == http.StatusOK:
			return body, nil
		case err != nil:
			lastErr = err
		case status == http.StatusTooManyRequests || status == http.StatusForbidden:
			lastErr = fmt.Errorf("%w: HTTP %d", domain.ErrRateLimited, status)
		case status >= 500 || status == http.StatusRequestTimeout:
			lastErr = fmt.Errorf("catalog: HTTP %d", status)
		default:
			// Other 4xx are not transient; do not burn retries on them.
			return nil, fmt.Errorf("catalog: HTTP %d", status)
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("catalog %s request failed after %d retries: %w", kind, c.maxRetries, lastErr)
}

func (c *Client) doGET(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// pace enforces the minimum spacing since the previous request.
func (c *Client) pace(ctx context.Context, minDelay time.Duration) error {
	c.mu.Lock()
	wait := minDelay - time.Since(c.lastReq)
	c.mu.Unlock()

	if wait > 0 {
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.lastReq = time.Now()
	c.mu.Unlock()
	return nil
}

// backoff grows exponentially from the base, capped at the max.
func (c *Client) backoff(attempt int) time.Duration {
	d := time.Duration(float64(c.backoffBase) * math.Pow(2, float64(attempt-1)))
	if d > c.backoffMax {
		d = c.backoffMax
	}
	return d
}

// IsRateLimited reports whether an error chain includes a 429/403 from
// the catalog.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
