package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/config"
	"github.com/kailas-cloud/schemedex/internal/domain"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	cfg := config.CatalogConfig{
		BaseURL:        baseURL + "/search/v4/schemes",
		DetailBaseURL:  baseURL + "/data/en/schemes",
		APIKey:         "test-key",
		MaxRetries:     maxRetries,
		BackoffBaseSec: 1,
		BackoffMaxSec:  2,
		TimeoutSec:     5,
		ListingDelayMs: 1,
		DetailDelayMs:  1,
	}
	c := New(cfg, zap.NewNop())
	// No real sleeping in tests.
	c.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return c
}

func listingBody(total int, slugs ...string) string {
	items := ""
	for i, s := range slugs {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"fields":{"slug":%q,"schemeName":"Scheme %s",
			"tags":["farmer"],"beneficiaryState":["All"],"schemeCategory":["All"],
			"briefDescription":"desc","age":{"min":18,"max":100}}}`, s, s)
	}
	return fmt.Sprintf(`{"data":{"summary":{"total":%d},"hits":{"items":[%s]}}}`, total, items)
}

func TestList_ParsesPageAndSendsAPIKey(t *testing.T) {
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-api-key"))
		if r.URL.Query().Get("from") != "20" {
			t.Errorf("expected from=20, got %q", r.URL.Query().Get("from"))
		}
		if r.URL.Query().Get("size") != "10" {
			t.Errorf("expected size=10, got %q", r.URL.Query().Get("size"))
		}
		_, _ = w.Write([]byte(listingBody(35, "pm-kisan", "ab-pmjay")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	page, err := c.List(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if page.Total != 35 {
		t.Errorf("expected total 35, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	first := page.Items[0]
	if first.Slug != "pm-kisan" || first.Age == nil || *first.Age.Min != 18 {
		t.Errorf("unexpected first item: %+v", first)
	}
	if gotKey.Load() != "test-key" {
		t.Errorf("expected x-api-key header, got %v", gotKey.Load())
	}
}

func TestDetail_FieldByFieldExtraction(t *testing.T) {
	// benefits present, everything else absent or malformed: the absent
	// fields must come back nil without failing the record.
	body := `{"pageProps":{"schemeData":{"en":{
		"schemeContent":{"benefits_md":"Cash transfer"},
		"applicationProcess":[]
	}},"docs":{"data":{}}}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	d, err := c.Detail(context.Background(), "pm-kisan")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}

	if d.Benefits == nil || *d.Benefits != "Cash transfer" {
		t.Errorf("expected benefits extracted, got %v", d.Benefits)
	}
	if d.Exclusions != nil || d.ApplicationProcess != nil || d.Eligibility != nil || d.DocumentsRequired != nil {
		t.Errorf("expected nil for absent fields, got %+v", d)
	}
}

func TestGet_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(listingBody(1, "pm-kisan")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	page, err := c.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("List after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
	if page.Total != 1 {
		t.Errorf("expected total 1, got %d", page.Total)
	}
}

func TestGet_RetryCapThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	_, err := c.List(context.Background(), 0, 10)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 3 { // initial attempt + 2 retries
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited in chain, got %v", err)
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should report true")
	}
}

func TestGet_NonTransient4xxFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.Detail(context.Background(), "no-such-slug")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	c := &Client{backoffBase: 5 * time.Second, backoffMax: 60 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 40 * time.Second},
		{5, 60 * time.Second}, // capped
		{9, 60 * time.Second},
	}
	for _, tt := range tests {
		if got := c.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
