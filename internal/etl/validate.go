package etl

import (
	"fmt"
	"sort"
	"strings"
)

// ── Validator ──────────────────────────────────────────────
// Computes dataset diagnostics over the materialized records. Purely
// observational: never mutates records and never blocks the pipeline —
// a dataset with missing cells or duplicate rows still loads.

// Report summarizes the health of a loaded dataset.
type Report struct {
	Rows          int      `json:"rows"`
	Columns       []string `json:"columns"`
	MissingValues int      `json:"missingValues"` // nil cells across the whole dataset
	DuplicateRows int      `json:"duplicateRows"` // exact duplicates beyond the first occurrence
}

// Validate inspects records against the schema and returns diagnostics.
func Validate(schema *Schema, records []Record) *Report {
	report := &Report{
		Rows:    len(records),
		Columns: schema.FieldNames(),
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := rowKey(report.Columns, r)
		if seen[key] {
			report.DuplicateRows++
		}
		seen[key] = true

		for _, col := range report.Columns {
			if v, ok := r.Data[col]; !ok || v == nil {
				report.MissingValues++
			}
		}
	}
	return report
}

// rowKey builds a canonical representation of a row for duplicate
// detection. Column order is normalized so map iteration order cannot
// make identical rows look different.
func rowKey(columns []string, r Record) string {
	cols := make([]string, len(columns))
	copy(cols, columns)
	sort.Strings(cols)

	var b strings.Builder
	for _, col := range cols {
		fmt.Fprintf(&b, "%s=%v\x1f", col, r.Data[col])
	}
	return b.String()
}
