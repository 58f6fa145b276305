package harvest

import (
	"strings"

	"github.com/kailas-cloud/schemedex/internal/catalog"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// Tag vocabulary the catalog uses for structured eligibility. Matching
// is case-insensitive against whole tags.
var (
	genderTags = []string{"male", "female", "transgender"}
	casteTags  = []string{"sc", "st", "obc", "general", "ews", "pvtg"}
)

// normalize turns a listing summary plus its detail payload into a
// record candidate. Every trimming/derivation here is per-field;
// nothing in this function can fail a whole record except Validate at
// the call site.
func normalize(sum catalog.Summary, det catalog.Detail, publicURLBase string) scheme.Record {
	rec := scheme.Record{
		Slug:        strings.TrimSpace(sum.Slug),
		Name:        strings.TrimSpace(sum.Name),
		Description: strings.TrimSpace(sum.Description),
		Tags:        trimAll(sum.Tags),
		States:      trimAll(sum.States),
		Categories:  trimAll(sum.Categories),

		Benefits:           trimPtr(det.Benefits),
		Exclusions:         trimPtr(det.Exclusions),
		ApplicationProcess: trimPtr(det.ApplicationProcess),
		Eligibility:        trimPtr(det.Eligibility),
		DocumentsRequired:  trimPtr(det.DocumentsRequired),
	}

	if publicURLBase != "" {
		rec.URL = strings.TrimRight(publicURLBase, "/") + "/" + rec.Slug
	}

	// An inverted range is a catalog glitch; treat the whole age axis
	// as unextracted rather than ingesting an invalid record.
	if sum.Age != nil {
		lo, hi := sum.Age.Min, sum.Age.Max
		if lo != nil && hi != nil && *lo > *hi {
			lo, hi = nil, nil
		}
		rec.AgeMin, rec.AgeMax = lo, hi
	}

	deriveFlags(&rec)
	return rec
}

// deriveFlags fills the structured eligibility flags from the tag
// vocabulary. Absent vocabulary leaves the axis unrestricted.
func deriveFlags(rec *scheme.Record) {
	for _, raw := range rec.Tags {
		tag := strings.ToLower(strings.TrimSpace(raw))

		for _, g := range genderTags {
			if tag == g {
				rec.Gender = g
			}
		}
		for _, c := range casteTags {
			if tag == c {
				rec.CasteCategory = c
			}
		}

		switch tag {
		case "pwd", "differently abled":
			rec.IsDifferentlyAbled = truePtr()
		case "bpl", "below poverty line":
			rec.IsBPL = truePtr()
		case "student":
			rec.IsStudent = truePtr()
		case "minority":
			rec.IsMinority = truePtr()
		}
	}
}

func truePtr() *bool {
	v := true
	return &v
}

func trimAll(vs []string) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// trimPtr trims a long-form field, collapsing whitespace-only payloads
// to nil so they count as degraded.
func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
