package harvest

import (
	"testing"

	"github.com/kailas-cloud/schemedex/internal/catalog"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestNormalize_FullRecord(t *testing.T) {
	sum := catalog.Summary{
		Slug:        " pm-kisan ",
		Name:        " PM Kisan Samman Nidhi ",
		Description: "Income support for farmer families.",
		Tags:        []string{"Agriculture", " farmer ", ""},
		States:      []string{"All"},
		Categories:  []string{"Agriculture,Rural & Environment"},
		Age:         &catalog.AgeRange{Min: intPtr(18), Max: intPtr(120)},
	}
	det := catalog.Detail{
		Benefits:    strPtr("Rs 6000 per year in three installments."),
		Eligibility: strPtr("Landholding farmer families."),
	}

	rec := normalize(sum, det, "https://www.myscheme.gov.in/schemes/")

	if rec.Slug != "pm-kisan" || rec.Name != "PM Kisan Samman Nidhi" {
		t.Errorf("identity fields not trimmed: %q / %q", rec.Slug, rec.Name)
	}
	if rec.URL != "https://www.myscheme.gov.in/schemes/pm-kisan" {
		t.Errorf("URL = %q", rec.URL)
	}
	if len(rec.Tags) != 2 || rec.Tags[1] != "farmer" {
		t.Errorf("Tags = %v, want trimmed non-empty entries", rec.Tags)
	}
	if rec.AgeMin == nil || *rec.AgeMin != 18 || rec.AgeMax == nil || *rec.AgeMax != 120 {
		t.Errorf("age range = %v..%v", rec.AgeMin, rec.AgeMax)
	}
	if rec.Benefits == nil || rec.Eligibility == nil {
		t.Error("long-form fields dropped")
	}
	if rec.Exclusions != nil {
		t.Error("absent detail field should stay nil")
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNormalize_InvertedAgeRangeDropped(t *testing.T) {
	sum := catalog.Summary{
		Slug: "odd-range",
		Name: "Odd Range",
		Age:  &catalog.AgeRange{Min: intPtr(60), Max: intPtr(18)},
	}
	rec := normalize(sum, catalog.Detail{}, "")
	if rec.AgeMin != nil || rec.AgeMax != nil {
		t.Errorf("inverted range kept: %v..%v", rec.AgeMin, rec.AgeMax)
	}
}

func TestNormalize_WhitespaceOnlyDetailIsDegraded(t *testing.T) {
	sum := catalog.Summary{Slug: "s", Name: "S"}
	det := catalog.Detail{Benefits: strPtr("   \n\t ")}
	rec := normalize(sum, det, "")
	if rec.Benefits != nil {
		t.Errorf("whitespace-only benefits kept: %q", *rec.Benefits)
	}
	if len(rec.DegradedFields()) != 5 {
		t.Errorf("DegradedFields() = %v, want all five", rec.DegradedFields())
	}
}

func TestDeriveFlags_TagVocabulary(t *testing.T) {
	sum := catalog.Summary{
		Slug: "s",
		Name: "S",
		Tags: []string{"Female", "SC", "BPL", "Student", "Differently Abled", "Minority"},
	}
	rec := normalize(sum, catalog.Detail{}, "")

	if rec.Gender != "female" {
		t.Errorf("Gender = %q, want female", rec.Gender)
	}
	if rec.CasteCategory != "sc" {
		t.Errorf("CasteCategory = %q, want sc", rec.CasteCategory)
	}
	for name, flag := range map[string]*bool{
		"IsBPL":              rec.IsBPL,
		"IsStudent":          rec.IsStudent,
		"IsDifferentlyAbled": rec.IsDifferentlyAbled,
		"IsMinority":         rec.IsMinority,
	} {
		if flag == nil || !*flag {
			t.Errorf("%s not derived from tags", name)
		}
	}
}

func TestDeriveFlags_UnrelatedTagsLeaveAxesOpen(t *testing.T) {
	sum := catalog.Summary{Slug: "s", Name: "S", Tags: []string{"Agriculture", "Pension"}}
	rec := normalize(sum, catalog.Detail{}, "")
	if rec.Gender != "" || rec.CasteCategory != "" {
		t.Errorf("axes restricted by unrelated tags: %q / %q", rec.Gender, rec.CasteCategory)
	}
	if rec.IsBPL != nil || rec.IsStudent != nil || rec.IsMinority != nil || rec.IsDifferentlyAbled != nil {
		t.Error("boolean flags set by unrelated tags")
	}
}
