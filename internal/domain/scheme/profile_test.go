package scheme

import "testing"

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func pmKisan() Record {
	return Record{
		Slug:        "pm-kisan",
		Name:        "PM-KISAN",
		Description: "Income support scheme for farmers",
		Tags:        []string{"farmer", "agriculture"},
		States:      []string{"All"},
		Categories:  []string{"All"},
		AgeMin:      intPtr(18),
		AgeMax:      intPtr(100),
	}
}

func TestEligible_AgeBoundariesInclusive(t *testing.T) {
	rec := pmKisan()

	tests := []struct {
		age  int
		want bool
	}{
		{17, false},
		{18, true},
		{100, true},
		{101, false},
		{0, true}, // unset age constrains nothing
	}
	for _, tt := range tests {
		if got := Eligible(rec, Profile{Age: tt.age}); got != tt.want {
			t.Errorf("Eligible(age=%d) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestEligible_AgeMaxZeroIsUnbounded(t *testing.T) {
	rec := pmKisan()
	rec.AgeMax = intPtr(0)

	if !Eligible(rec, Profile{Age: 95}) {
		t.Error("age_max=0 should not reject any age")
	}
}

func TestEligible_StateWildcardAndSubstring(t *testing.T) {
	rec := pmKisan()

	if !Eligible(rec, Profile{State: "Punjab"}) {
		t.Error("state wildcard must match any profile state")
	}

	rec.States = []string{"Punjab", "Haryana"}
	if !Eligible(rec, Profile{State: "punjab"}) {
		t.Error("state match must be case-insensitive")
	}
	if Eligible(rec, Profile{State: "Kerala"}) {
		t.Error("non-matching state must be rejected")
	}
	if !Eligible(rec, Profile{}) {
		t.Error("omitted state must not constrain")
	}
}

func TestEligible_GenderAndCaste(t *testing.T) {
	rec := pmKisan()
	rec.Gender = "female"
	rec.CasteCategory = "sc"

	if Eligible(rec, Profile{Gender: "male"}) {
		t.Error("gender mismatch must be rejected")
	}
	if !Eligible(rec, Profile{Gender: "Female"}) {
		t.Error("gender match must be case-insensitive")
	}
	if Eligible(rec, Profile{Caste: "obc"}) {
		t.Error("caste mismatch must be rejected")
	}
	if !Eligible(rec, Profile{Caste: "SC"}) {
		t.Error("caste match must be case-insensitive")
	}
}

func TestEligible_BooleanFlags(t *testing.T) {
	rec := pmKisan()
	rec.IsBPL = boolPtr(true)

	if Eligible(rec, Profile{}) {
		t.Error("record requiring BPL must reject a profile not asserting it")
	}
	if !Eligible(rec, Profile{IsBPL: true}) {
		t.Error("asserted BPL must pass")
	}

	rec.IsBPL = boolPtr(false)
	if !Eligible(rec, Profile{}) {
		t.Error("explicit false flag must not constrain")
	}
}

// With an attribute unset the result set is a superset of the result
// set with the attribute constrained.
func TestEligible_FilterMonotonicity(t *testing.T) {
	records := []Record{
		pmKisan(),
		{Slug: "a", Name: "A", States: []string{"Kerala"}},
		{Slug: "b", Name: "B", Gender: "female", CasteCategory: "st"},
		{Slug: "c", Name: "C", AgeMin: intPtr(60)},
	}

	unconstrained := map[string]bool{}
	for _, r := range records {
		if Eligible(r, Profile{}) {
			unconstrained[r.Slug] = true
		}
	}

	constrainedProfiles := []Profile{
		{State: "Kerala"},
		{Gender: "female"},
		{Age: 30},
		{Caste: "st"},
		{IsStudent: true},
	}
	for _, p := range constrainedProfiles {
		for _, r := range records {
			if Eligible(r, p) && !unconstrained[r.Slug] {
				t.Errorf("profile %+v admitted %q which the unconstrained profile rejected", p, r.Slug)
			}
		}
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{"valid", func(*Record) {}, false},
		{"no slug", func(r *Record) { r.Slug = " " }, true},
		{"no name", func(r *Record) { r.Name = "" }, true},
		{"inverted age range", func(r *Record) { r.AgeMin = intPtr(50); r.AgeMax = intPtr(20) }, true},
		{"only age_min", func(r *Record) { r.AgeMin = intPtr(18); r.AgeMax = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := pmKisan()
			tt.mutate(&rec)
			err := rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDegradedFields(t *testing.T) {
	rec := pmKisan()
	if got := rec.DegradedFields(); len(got) != 5 {
		t.Fatalf("expected all 5 long-form fields degraded, got %v", got)
	}

	b := "benefit text"
	rec.Benefits = &b
	found := false
	for _, f := range rec.DegradedFields() {
		if f == "benefits" {
			found = true
		}
	}
	if found {
		t.Error("benefits should no longer be degraded")
	}
}
