package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore implements DocumentStore on MongoDB. Live queries use change streams, so the
// server must run as a replica set.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoStore wraps a connected client.
func NewMongoStore(client *mongo.Client, dbName string, logger *zap.Logger) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName), logger: logger}
}

// mongoSub stops its reader goroutine on Close. Close does not wait for the goroutine, so it
// may be called from inside a snapshot callback.
type mongoSub struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *mongoSub) Close() {
	s.once.Do(s.cancel)
}

func mongoFilter(filter Filter) bson.M {
	if filter.IsZero() {
		return bson.M{}
	}
	return bson.M{filter.Field: filter.Value}
}

// LiveQuery sends the current result set, then re-reads and resends it after every change
// event on the collection.
func (s *MongoStore) LiveQuery(ctx context.Context, collection string, filter Filter, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("LiveQuery: nil snapshot callback for %s", collection)
	}
	subCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(subCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("LiveQuery %s: %w", collection, err)
	}
	sub := &mongoSub{cancel: cancel}

	fail := func(err error) {
		s.logger.Error("live query failed", zap.String("collection", collection), zap.String("field", filter.Field), zap.Error(err))
		if onError != nil {
			onError(err)
		}
	}

	go func() {
		defer stream.Close(context.Background())

		docs, err := s.Query(subCtx, collection, filter)
		if err != nil {
			if subCtx.Err() == nil {
				fail(err)
			}
			return
		}
		onSnapshot(docs)

		for stream.Next(subCtx) {
			docs, err := s.Query(subCtx, collection, filter)
			if err != nil {
				if subCtx.Err() == nil {
					fail(err)
				}
				return
			}
			if subCtx.Err() != nil {
				return
			}
			onSnapshot(docs)
		}
		if err := stream.Err(); err != nil && subCtx.Err() == nil {
			fail(err)
		}
	}()
	return sub, nil
}

func (s *MongoStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	if err := requireID("GetByID", collection, id); err != nil {
		return nil, err
	}
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetByID %s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID %s/%s: %w", collection, id, err)
	}
	doc := fromBSON(raw)
	return &doc, nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("Query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("Query %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	sortDocuments(docs)
	return docs, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	doc := toMongoFields(fields, time.Now().UTC())
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("Insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("Set", collection, id); err != nil {
		return err
	}
	doc := toMongoFields(fields, time.Now().UTC())
	doc["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("Set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("UpdateFields", collection, id); err != nil {
		return err
	}
	set := bson.M{}
	push := bson.M{}
	now := time.Now().UTC()
	for k, v := range fields {
		switch t := v.(type) {
		case serverTimestamp:
			set[k] = now
		case arrayUnion:
			push[k] = bson.M{"$each": t.Values}
		default:
			set[k] = v
		}
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(push) > 0 {
		update["$push"] = push
	}
	if len(update) == 0 {
		return nil
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("UpdateFields %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UpdateFields %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) AppendToArrayField(ctx context.Context, collection, id, field string, value any) error {
	return appendViaUpdate(ctx, s, collection, id, field, value)
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if err := requireID("Delete", collection, id); err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("Delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongoFields(fields map[string]any, now time.Time) bson.M {
	out := bson.M{}
	for k, v := range resolveSentinels(flattenUnions(fields), now) {
		out[k] = v
	}
	return out
}

func fromBSON(raw bson.M) Document {
	doc := Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = fmt.Sprint(v)
			continue
		}
		doc.Data[k] = normalizeBSON(v)
	}
	return doc
}

// normalizeBSON converts driver types into the plain shapes every adapter returns.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeBSON(val)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	default:
		return v
	}
}
