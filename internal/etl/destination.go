package etl

import "context"

// ── Destination ────────────────────────────────────────────
// A Destination writes records into a target system.
// For now, the only destination is the MongoDB collection writer.

// SyncMode determines how records are written to the destination.
type SyncMode string

const (
	SyncReplace SyncMode = "replace" // delete all existing documents, insert fresh
	SyncAppend  SyncMode = "append"  // add documents without deleting existing
)

// Destination writes records to a named target (a collection).
// It returns the number of records actually written; on replace mode a
// written count that differs from len(records) is an error, not a partial
// success.
type Destination interface {
	Write(ctx context.Context, target string, schema *Schema, records []Record, mode SyncMode) (int, error)
}
