package persist

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "trackmap"

// fieldRecord is the stored form of a field. The layout is kept as a BSON
// subdocument so that it can be queried in place.
type fieldRecord struct {
	ID        string           `bson:"_id"`
	ProjectID string           `bson:"project_id"`
	FieldID   string           `bson:"field_id"`
	Layout    payload.Document `bson:"layout"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// MongoBackend stores fields in the "fields" collection.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoBackend connects to uri and uses database (default "trackmap").
func NewMongoBackend(ctx context.Context, uri, database string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection("fields"),
	}, nil
}

func (b *MongoBackend) Fetch(ctx context.Context, key Key) ([]byte, error) {
	var rec fieldRecord
	err := b.coll.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, wrapBackend("find", key, err)
	}
	return json.Marshal(rec.Layout.Normalized())
}

func (b *MongoBackend) Put(ctx context.Context, key Key, data []byte) error {
	doc, _, err := payload.Parse(data)
	if err != nil {
		return err
	}
	rec := fieldRecord{
		ID:        key.String(),
		ProjectID: key.ProjectID,
		FieldID:   key.FieldID,
		Layout:    doc.Normalized(),
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := b.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		return wrapBackend("replace", key, err)
	}
	return nil
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

var _ Backend = (*MongoBackend)(nil)
