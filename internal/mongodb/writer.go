package mongodb

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"healthmigrate/internal/etl"
)

// ── Collection Writer ──────────────────────────────────────
// Writes records into a MongoDB collection.

// Writer implements etl.Destination for a MongoDB database.
type Writer struct {
	Client *Client
}

// Write stores records into the named collection. Replace mode deletes
// every existing document first (full-replace semantics, like TRUNCATE
// then bulk insert). There is no transaction around the two steps: if the
// insert fails after the delete, the collection is left empty and the
// error propagates.
func (w *Writer) Write(ctx context.Context, target string, schema *etl.Schema, records []etl.Record, mode etl.SyncMode) (int, error) {
	coll := w.Client.Collection(target)

	if mode == etl.SyncReplace {
		res, err := coll.DeleteMany(ctx, bson.M{})
		if err != nil {
			return 0, fmt.Errorf("clear target: %w", err)
		}
		log.Printf("[MONGO] Cleared %s: %d old documents removed", target, res.DeletedCount)
	}

	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = bson.M(r.Data)
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", target, err)
	}
	if len(res.InsertedIDs) != len(records) {
		return len(res.InsertedIDs), fmt.Errorf(
			"insert into %s: wrote %d of %d documents", target, len(res.InsertedIDs), len(records))
	}

	log.Printf("[MONGO] Inserted %d documents into %s", len(res.InsertedIDs), target)
	return len(res.InsertedIDs), nil
}
