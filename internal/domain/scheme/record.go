// Package scheme holds the canonical scheme record and the eligibility
// rules evaluated against a citizen profile.
package scheme

import (
	"fmt"
	"strings"
)

// Record is the canonical unit of data produced by the harvester and
// served by the search engine. Long-form fields are extracted
// best-effort: a nil pointer is a valid state, not an error.
type Record struct {
	Slug        string
	URL         string
	Name        string
	Description string
	Tags        []string
	States      []string
	Categories  []string
	AgeMin      *int
	AgeMax      *int

	Benefits           *string
	Exclusions         *string
	ApplicationProcess *string
	Eligibility        *string
	DocumentsRequired  *string

	// Structured eligibility flags, derived from the catalog's tag
	// vocabulary. Zero values mean unrestricted.
	Gender             string
	CasteCategory      string
	IsMinority         *bool
	IsDifferentlyAbled *bool
	IsBPL              *bool
	IsStudent          *bool
}

// Ranked pairs a record with its retrieval relevance score.
type Ranked struct {
	Record Record
	Score  float64
}

// Validate checks the record invariants that must hold before ingestion.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Slug) == "" {
		return fmt.Errorf("record has no slug")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("record %q has no name", r.Slug)
	}
	if r.AgeMin != nil && r.AgeMax != nil && *r.AgeMin > *r.AgeMax {
		return fmt.Errorf("record %q: age_min %d > age_max %d", r.Slug, *r.AgeMin, *r.AgeMax)
	}
	return nil
}

// longFormFields maps metric label to the extracted pointer.
// Keep labels stable: they feed the degraded-record counter.
func (r Record) longFormFields() map[string]*string {
	return map[string]*string{
		"benefits":            r.Benefits,
		"exclusions":          r.Exclusions,
		"application_process": r.ApplicationProcess,
		"eligibility":         r.Eligibility,
		"documents_required":  r.DocumentsRequired,
	}
}

// DegradedFields returns the names of long-form fields missing from
// this record. A non-empty result marks a degraded record.
func (r Record) DegradedFields() []string {
	var out []string
	for name, v := range r.longFormFields() {
		if v == nil {
			out = append(out, name)
		}
	}
	return out
}

// IsWildcard reports whether a record attribute value means
// "no restriction" on its axis.
func IsWildcard(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "all states", "universal":
		return true
	}
	return false
}

// wildcardList reports whether a multi-valued axis is unrestricted:
// either empty or containing a wildcard entry.
func wildcardList(vs []string) bool {
	if len(vs) == 0 {
		return true
	}
	for _, v := range vs {
		if IsWildcard(v) {
			return true
		}
	}
	return false
}
