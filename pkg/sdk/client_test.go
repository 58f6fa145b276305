package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch_SendsProfileAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/schemes/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "pension" || req.Profile == nil || req.Profile.Age != 65 {
			t.Errorf("request = %+v", req)
		}

		_ = json.NewEncoder(w).Encode(SearchResult{
			Results: []SearchItem{{Scheme: Scheme{Slug: "atal-pension", Name: "Atal Pension"}, Score: 0.9}},
			Total: 12,
			Limit: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("secret"))
	res, err := c.Search(context.Background(), "pension", &Profile{Age: 65}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.Total != 12 || len(res.Results) != 1 || res.Results[0].Slug != "atal-pension" {
		t.Errorf("result = %+v", res)
	}
}

func TestGetScheme_NotFoundBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "scheme_not_found",
			"message": "scheme not found",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetScheme(context.Background(), "no-such")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "scheme_not_found" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestListByCategory_BuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "agriculture" || q.Get("limit") != "5" {
			t.Errorf("query = %v", q)
		}
		_ = json.NewEncoder(w).Encode(listResponse{
			Results: []Scheme{{Slug: "pm-kisan", Name: "PM Kisan"}},
			Total: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	items, err := c.ListByCategory(context.Background(), "agriculture", 5)
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}
	if len(items) != 1 || items[0].Slug != "pm-kisan" {
		t.Errorf("items = %+v", items)
	}
}
