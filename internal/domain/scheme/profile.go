package scheme

import "strings"

// Profile carries the demographic attributes a caller supplies with a
// search. Zero values impose no constraint on the corresponding axis.
type Profile struct {
	Age      int
	Gender   string
	State    string
	Category string
	Caste    string

	IsMinority         bool
	IsDifferentlyAbled bool
	IsBPL              bool
	IsStudent          bool
}

// IsZero reports whether the profile constrains nothing.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// Eligible evaluates the conjunction of all predicates the profile
// supplies against one record. Attributes the profile omits pass
// automatically; attributes the record leaves unrestricted match any
// profile value.
func Eligible(r Record, p Profile) bool {
	return matchesAge(r, p.Age) &&
		matchesGender(r, p.Gender) &&
		matchesState(r, p.State) &&
		matchesCategory(r, p.Category) &&
		matchesCaste(r, p.Caste) &&
		matchesFlag(r.IsMinority, p.IsMinority) &&
		matchesFlag(r.IsDifferentlyAbled, p.IsDifferentlyAbled) &&
		matchesFlag(r.IsBPL, p.IsBPL) &&
		matchesFlag(r.IsStudent, p.IsStudent)
}

// matchesAge: both bounds inclusive; a zero or negative AgeMax on the
// record side is treated as unbounded.
func matchesAge(r Record, age int) bool {
	if age <= 0 {
		return true
	}
	if r.AgeMin != nil && age < *r.AgeMin {
		return false
	}
	if r.AgeMax != nil && *r.AgeMax > 0 && age > *r.AgeMax {
		return false
	}
	return true
}

func matchesGender(r Record, gender string) bool {
	if gender == "" || IsWildcard(r.Gender) {
		return true
	}
	return strings.EqualFold(r.Gender, gender)
}

// matchesState is substring-tolerant: catalog state entries carry
// decorations like "Punjab (UT)" that should still match "punjab".
func matchesState(r Record, state string) bool {
	if state == "" || wildcardList(r.States) {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(state))
	for _, s := range r.States {
		if strings.Contains(strings.ToLower(s), want) {
			return true
		}
	}
	return false
}

func matchesCategory(r Record, category string) bool {
	if category == "" || wildcardList(r.Categories) {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(category))
	for _, c := range r.Categories {
		if strings.Contains(strings.ToLower(c), want) {
			return true
		}
	}
	return false
}

func matchesCaste(r Record, caste string) bool {
	if caste == "" || IsWildcard(r.CasteCategory) {
		return true
	}
	return strings.EqualFold(r.CasteCategory, caste)
}

// matchesFlag rejects only when the record requires the flag and the
// profile does not assert it.
func matchesFlag(required *bool, asserted bool) bool {
	if required == nil || !*required {
		return true
	}
	return asserted
}
