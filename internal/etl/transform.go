package etl

import (
	"fmt"
	"time"
)

// ── Transformer ────────────────────────────────────────────
// Transformers modify records in-flight between source and destination.
// They are composable: each takes a record and returns a (possibly
// modified) record. A transform error is fatal for the whole run — this
// pipeline never skips partial rows.

// Transformer processes a single record.
type Transformer interface {
	Transform(Record) (Record, error)
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(Record) (Record, error)

func (f TransformerFunc) Transform(r Record) (Record, error) { return f(r) }

// ── Built-in Transforms ────────────────────────────────────

// DateParseTransform converts textual date fields to time.Time values.
// Fields already holding a time.Time pass through unchanged; anything else
// that fails to parse aborts the run.
type DateParseTransform struct {
	Fields []string
	Layout string // defaults to "2006-01-02"
}

func (t *DateParseTransform) Transform(r Record) (Record, error) {
	layout := t.Layout
	if layout == "" {
		layout = "2006-01-02"
	}
	for _, f := range t.Fields {
		v, ok := r.Data[f]
		if !ok || v == nil {
			continue
		}
		switch d := v.(type) {
		case time.Time:
			// already parsed
		case string:
			parsed, err := time.ParseInLocation(layout, d, time.UTC)
			if err != nil {
				return r, fmt.Errorf("parse %s %q: %w", f, d, err)
			}
			r.Data[f] = parsed
		default:
			return r, fmt.Errorf("parse %s: unexpected value %v (%T)", f, v, v)
		}
	}
	return r, nil
}

// TimestampTransform stamps each record with provenance timestamps.
// The instant is captured once per record, so created and updated are
// always equal on a freshly transformed record.
type TimestampTransform struct {
	CreatedField string
	UpdatedField string
}

func (t *TimestampTransform) Transform(r Record) (Record, error) {
	now := time.Now().UTC()
	r.Data[t.CreatedField] = now
	r.Data[t.UpdatedField] = now
	return r, nil
}

// ── Helpers ────────────────────────────────────────────────

// ApplyTransformers runs a chain of transformers on a record.
func ApplyTransformers(r Record, ts []Transformer) (Record, error) {
	for _, t := range ts {
		var err error
		r, err = t.Transform(r)
		if err != nil {
			return r, err
		}
	}
	return r, nil
}
