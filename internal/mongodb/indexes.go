package mongodb

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnsureIndexes creates an ascending single-field index for each field on
// the named collection. Index creation is idempotent: asking for an index
// that already exists with the same key is a no-op on the server, so this
// can run on every migration.
func (c *Client) EnsureIndexes(ctx context.Context, collection string, fields []string) error {
	coll := c.Collection(collection)

	models := make([]mongo.IndexModel, len(fields))
	for i, f := range fields {
		models[i] = mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}}
	}

	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("create indexes on %s: %w", collection, err)
	}

	log.Printf("[MONGO] Ensured %d indexes on %s: %v", len(names), collection, names)
	return nil
}
