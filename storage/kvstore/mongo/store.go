package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/trezcool/hrms/core"
)

const collection = "kv_slots"

type slot struct {
	Key       string    `bson:"_id"`
	Content   string    `bson:"content"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store keeps each slot as one document of the kv_slots collection, keyed by slot key.
// The JSON encoding is stored verbatim so slots stay interchangeable with the other stores.
type Store struct {
	client *mongo.Client
	slots  *mongo.Collection
}

var _ core.Store = (*Store)(nil) // interface compliance check

func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	return &Store{
		client: client,
		slots:  client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Load(ctx context.Context, key string, dest interface{}) error {
	var doc slot
	err := s.slots.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.ErrSlotNotFound
	} else if err != nil {
		return errors.Wrapf(err, "loading slot %s", key)
	}
	return core.Decode(key, []byte(doc.Content), dest)
}

func (s *Store) Save(ctx context.Context, key string, v interface{}) error {
	data, err := core.Encode(v)
	if err != nil {
		return err
	}
	doc := slot{Key: key, Content: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.slots.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "saving slot %s", key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.slots.DeleteOne(ctx, bson.M{"_id": key})
	return errors.Wrapf(err, "deleting slot %s", key)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.slots.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrapf(err, "checking slot %s", key)
	}
	return n > 0, nil
}

// SetRaw stores content under key as-is.
func (s *Store) SetRaw(ctx context.Context, key string, content string) error {
	doc := slot{Key: key, Content: content, UpdatedAt: time.Now().UTC()}
	_, err := s.slots.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "saving slot %s", key)
}
