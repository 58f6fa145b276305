// Package sdk is a small typed HTTP client for the schemedex API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Profile mirrors the eligibility attributes accepted by the search
// endpoint. Zero values constrain nothing.
type Profile struct {
	Age      int    `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	State    string `json:"state,omitempty"`
	Category string `json:"category,omitempty"`
	Caste    string `json:"caste,omitempty"`

	IsMinority         bool `json:"is_minority,omitempty"`
	IsDifferentlyAbled bool `json:"is_differently_abled,omitempty"`
	IsBPL              bool `json:"is_bpl,omitempty"`
	IsStudent          bool `json:"is_student,omitempty"`
}

// Scheme is one scheme record as served by the API.
type Scheme struct {
	Slug        string   `json:"slug"`
	URL         string   `json:"url,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	States      []string `json:"states,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	AgeMin      *int     `json:"age_min,omitempty"`
	AgeMax      *int     `json:"age_max,omitempty"`

	Benefits           *string `json:"benefits,omitempty"`
	Exclusions         *string `json:"exclusions,omitempty"`
	ApplicationProcess *string `json:"application_process,omitempty"`
	Eligibility        *string `json:"eligibility,omitempty"`
	DocumentsRequired  *string `json:"documents_required,omitempty"`
}

// SearchItem is a scheme plus its relevance score.
type SearchItem struct {
	Scheme
	Score float64 `json:"score"`
}

// SearchResult carries one page of matches plus the untruncated total.
type SearchResult struct {
	Results []SearchItem `json:"results"`
	Total   int          `json:"total_count"`
	Limit   int          `json:"limit"`
}

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("schemedex: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client calls the schemedex HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends a Bearer token with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	Query   string   `json:"query"`
	Limit   int      `json:"limit,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// Search runs a query with an optional eligibility profile.
// profile may be nil; limit zero uses the server default.
func (c *Client) Search(ctx context.Context, query string, profile *Profile, limit int) (SearchResult, error) {
	body, err := json.Marshal(searchRequest{Query: query, Limit: limit, Profile: profile})
	if err != nil {
		return SearchResult{}, fmt.Errorf("encode request: %w", err)
	}

	var out SearchResult
	if err := c.do(ctx, http.MethodPost, "/v1/schemes/search", bytes.NewReader(body), &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// GetScheme fetches one scheme by slug.
func (c *Client) GetScheme(ctx context.Context, slug string) (Scheme, error) {
	var out Scheme
	if err := c.do(ctx, http.MethodGet, "/v1/schemes/"+url.PathEscape(slug), nil, &out); err != nil {
		return Scheme{}, err
	}
	return out, nil
}

type listResponse struct {
	Results []Scheme `json:"results"`
	Total   int      `json:"total_count"`
}

// ListByCategory fetches schemes in a category, ordered by name.
func (c *Client) ListByCategory(ctx context.Context, category string, limit int) ([]Scheme, error) {
	q := url.Values{"category": {category}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/v1/schemes?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = body
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "unknown", Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
