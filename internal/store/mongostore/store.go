// Package mongostore keeps scheduler documents in MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"driver-scheduler/internal/store"
)

type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	types    *mongo.Collection
	appts    *mongo.Collection
	auth     *mongo.Collection
	settings *mongo.Collection
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		client:   client,
		db:       db,
		types:    db.Collection("appointment_types"),
		appts:    db.Collection("appointments"),
		auth:     db.Collection("auth_config"),
		settings: db.Collection("settings"),
	}
}

// Open connects to uri, pings the primary and ensures the id indexes.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := New(client, dbName)
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	for coll, models := range map[*mongo.Collection][]mongo.IndexModel{
		s.types:    {unique("id")},
		s.appts:    {unique("id"), {Keys: bson.D{{Key: "appointment_type_id", Value: 1}}}},
		s.auth:     {unique("user")},
		s.settings: {unique("key")},
	} {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Database() *mongo.Database {
	return s.db
}

// insertion order; _id is an ObjectID assigned by the driver on insert
var byInsertion = bson.D{{Key: "_id", Value: 1}}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, limit int) ([]T, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(byInsertion).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	v := new(T)
	err := coll.FindOne(ctx, filter).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func setByID(ctx context.Context, coll *mongo.Collection, id string, fields map[string]any) error {
	res, err := coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
