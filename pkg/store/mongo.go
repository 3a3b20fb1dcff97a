package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gridmesh/gridmesh/pkg/errors"
)

// layoutCollection is the mongo collection holding layout records.
const layoutCollection = "layouts"

// MongoStore persists records in a MongoDB collection, keyed by record ID.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the mongo connection.
type MongoConfig struct {
	URI      string // e.g. "mongodb://localhost:27017"
	Database string // e.g. "gridmesh"
}

// NewMongoStore connects to mongo and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(layoutCollection),
	}, nil
}

// Save stores a record under its ID, replacing any existing record.
func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", rec.ID)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return Record{}, errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStorage, err, "get layout %s", id)
	}
	return rec, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %s", id)
	}
	return nil
}

// Close disconnects from mongo.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements LayoutStore.
var _ LayoutStore = (*MongoStore)(nil)
