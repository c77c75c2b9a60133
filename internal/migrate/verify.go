package migrate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ── Verifier ───────────────────────────────────────────────
// Read/update/delete probes against the freshly loaded collection. Each
// probe tolerates zero matches — an empty result set is skipped, never an
// error. Only a sentinel delete that removes the wrong number of
// documents fails the run.

const (
	sentinelName = "Test Patient TO DELETE"
	statusField  = "status"
)

// Collection is the slice of *mongo.Collection the verifier uses. The
// indirection keeps the probe logic runnable against a fake in tests;
// *mongo.Collection satisfies it directly.
type Collection interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
}

// Verifier runs demonstration queries against a loaded collection.
type Verifier struct {
	Coll Collection

	// Probe values; zero matches for any of them is fine.
	Condition  string // equality probe on "Medical Condition"
	NamePrefix string // case-insensitive prefix probe on "Name"
}

// Run executes the read, update, and delete probes in order and reports
// the final document count.
func (v *Verifier) Run(ctx context.Context) error {
	if v.Condition == "" {
		v.Condition = "Diabetes"
	}
	if v.NamePrefix == "" {
		v.NamePrefix = "bobby"
	}

	if err := v.readProbes(ctx); err != nil {
		return err
	}
	if err := v.updateProbes(ctx); err != nil {
		return err
	}
	if err := v.deleteProbes(ctx); err != nil {
		return err
	}

	total, err := v.Coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("final count: %w", err)
	}
	log.Printf("[VERIFY] Final document count: %d", total)
	return nil
}

func (v *Verifier) namePrefixFilter() bson.M {
	return bson.M{"Name": bson.M{"$regex": "^" + v.NamePrefix, "$options": "i"}}
}

func (v *Verifier) readProbes(ctx context.Context) error {
	count, err := v.Coll.CountDocuments(ctx, bson.M{"Medical Condition": v.Condition})
	if err != nil {
		return fmt.Errorf("count by condition: %w", err)
	}
	log.Printf("[VERIFY] Patients with %s: %d", v.Condition, count)

	var byName bson.M
	err = v.Coll.FindOne(ctx, v.namePrefixFilter()).Decode(&byName)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		log.Printf("[VERIFY] No patient name matches prefix %q", v.NamePrefix)
	case err != nil:
		return fmt.Errorf("find by name prefix: %w", err)
	default:
		log.Printf("[VERIFY] Found patient: %v, age %v", byName["Name"], byName["Age"])
	}

	// Pick any document's hospital and count how many share it.
	var sample bson.M
	err = v.Coll.FindOne(ctx, bson.M{}).Decode(&sample)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		log.Printf("[VERIFY] Collection is empty, skipping hospital probe")
	case err != nil:
		return fmt.Errorf("find sample document: %w", err)
	default:
		hospital, _ := sample["Hospital"].(string)
		if hospital == "" {
			log.Printf("[VERIFY] Sample document has no hospital, skipping")
			break
		}
		count, err := v.Coll.CountDocuments(ctx, bson.M{"Hospital": hospital})
		if err != nil {
			return fmt.Errorf("count by hospital: %w", err)
		}
		log.Printf("[VERIFY] Patients at %s: %d", hospital, count)
	}

	return nil
}

func (v *Verifier) updateProbes(ctx context.Context) error {
	// Single-document update on the name-prefix match.
	res, err := v.Coll.UpdateOne(ctx, v.namePrefixFilter(), bson.M{"$set": bson.M{
		"Follow Up Required": true,
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update by name prefix: %w", err)
	}
	log.Printf("[VERIFY] Updated by name prefix: %d modified", res.ModifiedCount)

	// Many-document update on whatever hospital the sample probe finds.
	var sample bson.M
	err = v.Coll.FindOne(ctx, bson.M{}).Decode(&sample)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find sample document: %w", err)
	}
	if hospital, _ := sample["Hospital"].(string); hospital != "" {
		res, err := v.Coll.UpdateMany(ctx, bson.M{"Hospital": hospital}, bson.M{"$set": bson.M{
			"Last Reviewed": time.Now().UTC(),
			"updated_at":    time.Now().UTC(),
		}})
		if err != nil {
			return fmt.Errorf("update by hospital: %w", err)
		}
		log.Printf("[VERIFY] Updated %s patients: %d modified", hospital, res.ModifiedCount)
	}

	// Many-document update on the condition filter; the status field set
	// here is temporary and removed again by the delete probes.
	res2, err := v.Coll.UpdateMany(ctx, bson.M{"Medical Condition": v.Condition}, bson.M{"$set": bson.M{
		statusField:  "Under Treatment",
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update by condition: %w", err)
	}
	log.Printf("[VERIFY] Updated %s patients: %d modified", v.Condition, res2.ModifiedCount)

	return nil
}

func (v *Verifier) deleteProbes(ctx context.Context) error {
	// Insert a sentinel record and delete it by exact name. Exactly one
	// document must go away.
	now := time.Now().UTC()
	_, err := v.Coll.InsertOne(ctx, bson.M{
		"Name":              sentinelName,
		"Age":               int64(99),
		"Medical Condition": "None",
		"Hospital":          "Test Hospital",
		"created_at":        now,
		"updated_at":        now,
	})
	if err != nil {
		return fmt.Errorf("insert sentinel: %w", err)
	}
	res, err := v.Coll.DeleteOne(ctx, bson.M{"Name": sentinelName})
	if err != nil {
		return fmt.Errorf("delete sentinel: %w", err)
	}
	if res.DeletedCount != 1 {
		return fmt.Errorf("delete sentinel: expected 1 document removed, got %d", res.DeletedCount)
	}
	log.Printf("[VERIFY] Sentinel insert/delete round trip OK")

	// Remove every document carrying the temporary status field.
	res2, err := v.Coll.DeleteMany(ctx, bson.M{statusField: bson.M{"$exists": true}})
	if err != nil {
		return fmt.Errorf("delete by status: %w", err)
	}
	log.Printf("[VERIFY] Deleted %d documents by status field", res2.DeletedCount)

	// Cleanup pass: documents missing required identity fields should not
	// exist for a well-formed source file.
	res3, err := v.Coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"Name": bson.M{"$exists": false}},
		bson.M{"Age": bson.M{"$exists": false}},
	}})
	if err != nil {
		return fmt.Errorf("cleanup delete: %w", err)
	}
	log.Printf("[VERIFY] Cleanup removed %d malformed documents", res3.DeletedCount)

	return nil
}
