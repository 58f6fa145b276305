package scheme

import (
	"github.com/jackc/pgx/v5"

	domscheme "github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

// recordColumns is the canonical column order for every SELECT here.
// scanRecord must stay in lockstep with it.
const recordColumns = `slug, url, name, description, tags, states, categories,
	age_min, age_max,
	benefits, exclusions, application_process, eligibility, documents_required,
	gender, caste_category, is_minority, is_differently_abled, is_bpl, is_student`

// insertArgs flattens a record into the positional args of insertSQL.
func insertArgs(rec domscheme.Record) []any {
	return []any{
		rec.Slug, rec.URL, rec.Name, rec.Description,
		rec.Tags, rec.States, rec.Categories,
		rec.AgeMin, rec.AgeMax,
		rec.Benefits, rec.Exclusions, rec.ApplicationProcess,
		rec.Eligibility, rec.DocumentsRequired,
		rec.Gender, rec.CasteCategory,
		rec.IsMinority, rec.IsDifferentlyAbled, rec.IsBPL, rec.IsStudent,
	}
}

// scanRecord reads one row in recordColumns order.
func scanRecord(row pgx.Row) (domscheme.Record, error) {
	var rec domscheme.Record
	err := row.Scan(
		&rec.Slug, &rec.URL, &rec.Name, &rec.Description,
		&rec.Tags, &rec.States, &rec.Categories,
		&rec.AgeMin, &rec.AgeMax,
		&rec.Benefits, &rec.Exclusions, &rec.ApplicationProcess,
		&rec.Eligibility, &rec.DocumentsRequired,
		&rec.Gender, &rec.CasteCategory,
		&rec.IsMinority, &rec.IsDifferentlyAbled, &rec.IsBPL, &rec.IsStudent,
	)
	return rec, err
}

// collectRecords drains rows into a slice, closing them either way.
func collectRecords(rows pgx.Rows) ([]domscheme.Record, error) {
	defer rows.Close()
	var out []domscheme.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
