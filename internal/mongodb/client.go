package mongodb

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Client wraps a MongoDB connection scoped to a single database.
// It is opened once at the start of a run and passed into every stage;
// Close must be called on all exit paths.
type Client struct {
	client *mongo.Client
	dbName string
}

// Connect creates a client for the given URI and database and verifies
// connectivity with a ping. The database (and any collection) does not
// need to exist yet — both materialize on first write.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) (*Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		// Bare host[:port] form.
		uri = "mongodb://" + uri
	}

	log.Printf("[MONGO] Connecting with URI: %s", MaskURI(uri))
	log.Printf("[MONGO] Database: %s", dbName)

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		disconnect(client)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Printf("[MONGO] Connection established")
	return &Client{client: client, dbName: dbName}, nil
}

// Collection returns a handle to a named collection in the client's database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.client.Database(c.dbName).Collection(name)
}

// Close releases the connection. Safe to call after a failed run.
func (c *Client) Close() error {
	return disconnect(c.client)
}

func disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// MaskURI hides credentials in a connection string for logging.
func MaskURI(uri string) string {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd == -1 {
		return uri
	}
	rest := uri[schemeEnd+3:]
	at := strings.Index(rest, "@")
	if at == -1 {
		return uri
	}
	userinfo := rest[:at]
	if colon := strings.Index(userinfo, ":"); colon != -1 {
		userinfo = userinfo[:colon] + ":***"
	}
	return uri[:schemeEnd+3] + userinfo + rest[at:]
}
