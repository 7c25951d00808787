package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DB wraps the Mongo client with an explicit lifecycle: connect once in
// main, pass it to the stores, close it on shutdown.
type DB struct {
	client *mongo.Client
	name   string
}

func Connect(ctx context.Context, uri, name string) (*DB, error) {
	if uri == "" {
		return nil, fmt.Errorf("database: MONGODB_URI is not set")
	}
	if name == "" {
		return nil, fmt.Errorf("database: DATABASE_NAME is not set")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &DB{client: client, name: name}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.client.Database(d.name).Collection(name)
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes registers the schema-level constraints once at startup
// instead of relying on lazily created models.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("database: users email index: %w", err)
	}

	_, err = d.Collection("authorizations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("database: authorizations timestamp index: %w", err)
	}
	return nil
}
