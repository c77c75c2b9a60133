package etl_test

import (
	"reflect"
	"testing"

	"healthmigrate/internal/etl"
)

func patientSchema() *etl.Schema {
	return &etl.Schema{Fields: []etl.Field{
		{Name: "Name", Type: "text"},
		{Name: "Age", Type: "number"},
		{Name: "Hospital", Type: "text"},
	}}
}

func TestValidate_CleanDataset(t *testing.T) {
	records := []etl.Record{
		{Data: map[string]any{"Name": "Bobby Jackson", "Age": 30.0, "Hospital": "Sons and Miller"}},
		{Data: map[string]any{"Name": "Leslie Terry", "Age": 62.0, "Hospital": "Kim Inc"}},
	}

	report := etl.Validate(patientSchema(), records)

	if report.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", report.Rows)
	}
	if report.MissingValues != 0 || report.DuplicateRows != 0 {
		t.Fatalf("clean dataset reported missing=%d dupes=%d", report.MissingValues, report.DuplicateRows)
	}
	if !reflect.DeepEqual(report.Columns, []string{"Name", "Age", "Hospital"}) {
		t.Fatalf("unexpected column list: %v", report.Columns)
	}
}

func TestValidate_CountsMissingCells(t *testing.T) {
	records := []etl.Record{
		{Data: map[string]any{"Name": "Bobby Jackson", "Age": nil, "Hospital": "Sons and Miller"}},
		{Data: map[string]any{"Name": "Leslie Terry"}}, // Age and Hospital absent
	}

	report := etl.Validate(patientSchema(), records)
	if report.MissingValues != 3 {
		t.Fatalf("expected 3 missing cells, got %d", report.MissingValues)
	}
}

func TestValidate_CountsExactDuplicates(t *testing.T) {
	row := map[string]any{"Name": "Bobby Jackson", "Age": 30.0, "Hospital": "Sons and Miller"}
	records := []etl.Record{
		{Data: row},
		{Data: map[string]any{"Name": "Leslie Terry", "Age": 62.0, "Hospital": "Kim Inc"}},
		{Data: row},
		{Data: row},
	}

	report := etl.Validate(patientSchema(), records)
	// First occurrence is not a duplicate; the two repeats are.
	if report.DuplicateRows != 2 {
		t.Fatalf("expected 2 duplicate rows, got %d", report.DuplicateRows)
	}
}

func TestValidate_NeverMutatesRecords(t *testing.T) {
	records := []etl.Record{
		{Data: map[string]any{"Name": "Bobby Jackson", "Age": 30.0, "Hospital": "Sons and Miller"}},
	}

	etl.Validate(patientSchema(), records)

	if len(records[0].Data) != 3 || records[0].Data["Name"] != "Bobby Jackson" {
		t.Fatal("validation must not touch record data")
	}
}
