package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements DocumentStore on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client, logger *zap.Logger) *FirestoreStore {
	return &FirestoreStore{client: client, logger: logger}
}

// firestoreSub stops its reader goroutine on Close. Close does not wait for the goroutine, so it
// may be called from inside a snapshot callback.
type firestoreSub struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *firestoreSub) Close() {
	s.once.Do(s.cancel)
}

func (s *FirestoreStore) query(collection string, filter Filter) firestore.Query {
	q := s.client.Collection(collection).Query
	if !filter.IsZero() {
		q = q.Where(filter.Field, "==", filter.Value)
	}
	return q
}

// LiveQuery streams query snapshots until the subscription is closed or ctx ends.
func (s *FirestoreStore) LiveQuery(ctx context.Context, collection string, filter Filter, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("LiveQuery: nil snapshot callback for %s", collection)
	}
	subCtx, cancel := context.WithCancel(ctx)
	sub := &firestoreSub{cancel: cancel}
	it := s.query(collection, filter).Snapshots(subCtx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if subCtx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				s.logger.Error("live query failed", zap.String("collection", collection), zap.String("field", filter.Field), zap.Error(err))
				if onError != nil {
					onError(err)
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				s.logger.Warn("failed to read live snapshot", zap.String("collection", collection), zap.Error(err))
				continue
			}
			if subCtx.Err() != nil {
				return
			}
			onSnapshot(toDocuments(docs))
		}
	}()
	return sub, nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	if err := requireID("GetByID", collection, id); err != nil {
		return nil, err
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("GetByID %s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	iter := s.query(collection, filter).Documents(ctx)
	defer iter.Stop()

	var out []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Query %s: %w", collection, err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	sortDocuments(out)
	return out, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestoreFields(fields))
	if err != nil {
		return "", fmt.Errorf("Insert %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("Set", collection, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestoreFields(fields)); err != nil {
		return fmt.Errorf("Set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("UpdateFields", collection, id); err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: toFirestoreValue(v)})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("UpdateFields %s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("UpdateFields %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) AppendToArrayField(ctx context.Context, collection, id, field string, value any) error {
	return appendViaUpdate(ctx, s, collection, id, field, value)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if err := requireID("Delete", collection, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("Delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []Document {
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	sortDocuments(docs)
	return docs
}

func toFirestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreValue(v any) any {
	switch t := v.(type) {
	case serverTimestamp:
		return firestore.ServerTimestamp
	case arrayUnion:
		return firestore.ArrayUnion(t.Values...)
	default:
		return v
	}
}
