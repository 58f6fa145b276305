package chi

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
	searchuc "github.com/kailas-cloud/schemedex/internal/usecase/search"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeInvalidQuery     = "invalid_query"
	codeSchemeNotFound   = "scheme_not_found"
	codeDuplicateScheme  = "duplicate_scheme"
	codeStoreUnavailable = "store_unavailable"
	codeRateLimited      = "rate_limited"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query   string          `json:"query"`
	Limit   int             `json:"limit,omitempty"`
	Profile *profileRequest `json:"profile,omitempty"`
}

type profileRequest struct {
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

type schemeResponse struct {
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

	Gender        string `json:"gender,omitempty"`
	CasteCategory string `json:"caste_category,omitempty"`
	IsMinority    *bool  `json:"is_minority,omitempty"`
	IsDisabled    *bool  `json:"is_differently_abled,omitempty"`
	IsBPL         *bool  `json:"is_bpl,omitempty"`
	IsStudent     *bool  `json:"is_student,omitempty"`
}

type searchResultItem struct {
	schemeResponse
	Score float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Total   int                `json:"total_count"`
	Limit   int                `json:"limit"`
}

type schemeListResponse struct {
	Results []schemeResponse `json:"results"`
	Total   int              `json:"total_count"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func profileFromRequest(p *profileRequest) scheme.Profile {
	if p == nil {
		return scheme.Profile{}
	}
	return scheme.Profile{
		Age:      p.Age,
		Gender:   p.Gender,
		State:    p.State,
		Category: p.Category,
		Caste:    p.Caste,

		IsMinority:         p.IsMinority,
		IsDifferentlyAbled: p.IsDifferentlyAbled,
		IsBPL:              p.IsBPL,
		IsStudent:          p.IsStudent,
	}
}

// profileFromQuery builds a profile from listing query parameters. The
// record category is already a filter of its own, so the profile form
// here carries the personal attributes only.
func profileFromQuery(q url.Values) (scheme.Profile, error) {
	var p scheme.Profile
	if raw := q.Get("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return scheme.Profile{}, fmt.Errorf("age must be a non-negative integer")
		}
		p.Age = age
	}
	p.Gender = q.Get("gender")
	p.State = q.Get("state")
	p.Caste = q.Get("caste")
	for param, field := range map[string]*bool{
		"is_minority":          &p.IsMinority,
		"is_differently_abled": &p.IsDifferentlyAbled,
		"is_bpl":               &p.IsBPL,
		"is_student":           &p.IsStudent,
	} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return scheme.Profile{}, fmt.Errorf("%s must be a boolean", param)
		}
		*field = v
	}
	return p, nil
}

func schemeToResponse(rec scheme.Record) schemeResponse {
	return schemeResponse{
		Slug:        rec.Slug,
		URL:         rec.URL,
		Name:        rec.Name,
		Description: rec.Description,
		Tags:        rec.Tags,
		States:      rec.States,
		Categories:  rec.Categories,
		AgeMin:      rec.AgeMin,
		AgeMax:      rec.AgeMax,

		Benefits:           rec.Benefits,
		Exclusions:         rec.Exclusions,
		ApplicationProcess: rec.ApplicationProcess,
		Eligibility:        rec.Eligibility,
		DocumentsRequired:  rec.DocumentsRequired,

		Gender:        rec.Gender,
		CasteCategory: rec.CasteCategory,
		IsMinority:    rec.IsMinority,
		IsDisabled:    rec.IsDifferentlyAbled,
		IsBPL:         rec.IsBPL,
		IsStudent:     rec.IsStudent,
	}
}

func searchToResponse(res searchuc.Result) searchResponse {
	items := make([]searchResultItem, len(res.Schemes))
	for i, rk := range res.Schemes {
		items[i] = searchResultItem{
			schemeResponse: schemeToResponse(rk.Record),
			Score:          rk.Score,
		}
	}
	return searchResponse{Results: items, Total: res.Total, Limit: res.Limit}
}
