package sources_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"healthmigrate/internal/etl"
	"healthmigrate/internal/etl/sources"
)

const sampleCSV = `Name,Age,Medical Condition,Hospital,Billing Amount,Date of Admission,Discharge Date
Bobby Jackson,30,Cancer,Sons and Miller,18856.28,2024-01-31,2024-02-02
Leslie Terry,62,Obesity,Kim Inc,33643.33,2019-08-20,2019-08-26
Danny Smith,76,Obesity,Cook PLC,27955.10,2022-09-22,2022-10-07
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "healthcare_dataset.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, cfg etl.SourceConfig) []etl.Record {
	t.Helper()
	source, err := etl.GetSource("csv_file")
	if err != nil {
		t.Fatal(err)
	}

	recCh, errCh := source.Read(context.Background(), cfg)
	var records []etl.Record
	for rec := range recCh {
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("read: %v", err)
	}
	return records
}

func TestCSVSource_DiscoverHeaders(t *testing.T) {
	source, err := etl.GetSource("csv_file")
	if err != nil {
		t.Fatal(err)
	}

	schema, err := source.Discover(context.Background(), etl.SourceConfig{"filePath": writeSample(t)})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	names := schema.FieldNames()
	want := []string{"Name", "Age", "Medical Condition", "Hospital", "Billing Amount", "Date of Admission", "Discharge Date"}
	if len(names) != len(want) {
		t.Fatalf("expected %d columns, got %v", len(want), names)
	}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("column %d: expected %q, got %q", i, w, names[i])
		}
	}
}

func TestCSVSource_ReadsAllRowsWithInference(t *testing.T) {
	records := readAll(t, etl.SourceConfig{"filePath": writeSample(t)})

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	first := records[0].Data
	if first["Name"] != "Bobby Jackson" {
		t.Fatalf("unexpected Name: %v", first["Name"])
	}
	// Whole-number cells come back as integers, decimals as floats.
	if age, ok := first["Age"].(int64); !ok || age != 30 {
		t.Fatalf("expected Age 30 as int64, got %v (%T)", first["Age"], first["Age"])
	}
	if amount, ok := first["Billing Amount"].(float64); !ok || amount != 18856.28 {
		t.Fatalf("expected Billing Amount 18856.28 as float64, got %v (%T)", first["Billing Amount"], first["Billing Amount"])
	}
	// Dates stay textual at this stage; the transformer parses them.
	if first["Date of Admission"] != "2024-01-31" {
		t.Fatalf("unexpected admission date: %v", first["Date of Admission"])
	}
}

func TestCSVSource_MissingFileFails(t *testing.T) {
	source, err := etl.GetSource("csv_file")
	if err != nil {
		t.Fatal(err)
	}

	recCh, errCh := source.Read(context.Background(), etl.SourceConfig{"filePath": "/nonexistent/file.csv"})
	for range recCh {
	}
	if err := <-errCh; err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveCSVPath_OverrideWins(t *testing.T) {
	path := writeSample(t)
	got, err := sources.ResolveCSVPath(path, "data/other.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Fatalf("expected override %q, got %q", path, got)
	}
}

func TestResolveCSVPath_OverrideMustExist(t *testing.T) {
	if _, err := sources.ResolveCSVPath("/nope/missing.csv"); err == nil {
		t.Fatal("expected error for missing override path")
	}
}

func TestResolveCSVPath_FallbackChain(t *testing.T) {
	dir := t.TempDir()
	secondary := filepath.Join(dir, "secondary.csv")
	if err := os.WriteFile(secondary, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := sources.ResolveCSVPath("", filepath.Join(dir, "primary.csv"), secondary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != secondary {
		t.Fatalf("expected fallback to %q, got %q", secondary, got)
	}
}

func TestResolveCSVPath_NothingResolves(t *testing.T) {
	dir := t.TempDir()
	_, err := sources.ResolveCSVPath("", filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"))
	if err == nil {
		t.Fatal("expected error when no candidate exists")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist in chain, got %v", err)
	}
}
