package migrate

import (
	"context"
	"fmt"
	"log"
	"time"

	"healthmigrate/internal/etl"
)

// ── Pipeline ───────────────────────────────────────────────
// Orchestrates: source.Read → validate → transform chain → destination.
// Strictly sequential; every stage depends on the previous one completing
// and any stage error aborts the run. No retries anywhere.

// Pipeline holds the configuration for a single load run.
type Pipeline struct {
	SourceType string
	SourceCfg  etl.SourceConfig
	Transforms []etl.Transformer
	Dest       etl.Destination
	Target     string // destination collection name
}

// RunResult is the outcome of running the pipeline.
type RunResult struct {
	Status      string        `json:"status"` // "success" | "error"
	RowsRead    int           `json:"rowsRead"`
	RowsWritten int           `json:"rowsWritten"`
	Duration    time.Duration `json:"duration"`
	Report      *etl.Report   `json:"report,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func (r *RunResult) fail(start time.Time, err error) (*RunResult, error) {
	r.Status = "error"
	r.Error = err.Error()
	r.Duration = time.Since(start)
	return r, err
}

// Run executes the load end-to-end: discover schema, read all records
// into memory, report diagnostics, transform, then write with
// full-replace semantics.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{}

	source, err := etl.GetSource(p.SourceType)
	if err != nil {
		return result.fail(start, err)
	}

	schema, err := source.Discover(ctx, p.SourceCfg)
	if err != nil {
		return result.fail(start, fmt.Errorf("discover: %w", err))
	}

	log.Printf("[LOAD] Reading source (%s)...", p.SourceType)
	recCh, errCh := source.Read(ctx, p.SourceCfg)

	var records []etl.Record
	for rec := range recCh {
		result.RowsRead++
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return result.fail(start, fmt.Errorf("read: %w", err))
	}
	log.Printf("[LOAD] %d records loaded", result.RowsRead)

	// Diagnostics only — missing values or duplicates never block the run.
	result.Report = etl.Validate(schema, records)
	log.Printf("[VALIDATE] Columns: %v", result.Report.Columns)
	log.Printf("[VALIDATE] Missing values: %d", result.Report.MissingValues)
	log.Printf("[VALIDATE] Duplicate rows: %d", result.Report.DuplicateRows)

	log.Printf("[TRANSFORM] Applying %d transforms...", len(p.Transforms))
	for i, rec := range records {
		transformed, err := etl.ApplyTransformers(rec, p.Transforms)
		if err != nil {
			return result.fail(start, fmt.Errorf("transform row %d: %w", i, err))
		}
		records[i] = transformed
	}
	log.Printf("[TRANSFORM] %d documents ready", len(records))

	written, err := p.Dest.Write(ctx, p.Target, schema, records, etl.SyncReplace)
	result.RowsWritten = written
	if err != nil {
		return result.fail(start, fmt.Errorf("write: %w", err))
	}
	// A short count with no error is still a failed run.
	if written != len(records) {
		return result.fail(start, fmt.Errorf("write: wrote %d of %d documents", written, len(records)))
	}

	result.Status = "success"
	result.Duration = time.Since(start)
	return result, nil
}
