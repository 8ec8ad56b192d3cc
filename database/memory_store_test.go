package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	snaps [][]Document
}

func (r *recorder) record(docs []Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, docs)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func TestLiveQuery_InitialSnapshotAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, PackagesCollection, "p1", map[string]any{"vendorId": "V1", "name": "Ella Hike"}))
	require.NoError(t, s.Set(ctx, PackagesCollection, "p2", map[string]any{"vendorId": "V2", "name": "Mirissa"}))

	rec := &recorder{}
	sub, err := s.LiveQuery(ctx, PackagesCollection, Where("vendorId", "V1"), rec.record, nil)
	require.NoError(t, err)
	defer sub.Close()

	require.Equal(t, 1, rec.count())
	docs := rec.last()
	require.Len(t, docs, 1)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, "Ella Hike", docs[0].Data["name"])
}

func TestLiveQuery_PushesOnMatchingWritesOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := &recorder{}
	sub, err := s.LiveQuery(ctx, BookingsCollection, Where("vendorId", "V1"), rec.record, nil)
	require.NoError(t, err)
	defer sub.Close()

	id, err := s.Insert(ctx, BookingsCollection, map[string]any{"vendorId": "V1", "status": "Pending"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count())

	_, err = s.Insert(ctx, BookingsCollection, map[string]any{"vendorId": "V2"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count(), "writes outside the filter do not push")

	// A document leaving the result set still pushes.
	require.NoError(t, s.UpdateFields(ctx, BookingsCollection, id, map[string]any{"vendorId": "V9"}))
	assert.Equal(t, 3, rec.count())
	assert.Empty(t, rec.last())
}

func TestLiveQuery_CloseIsIdempotentAndStopsDelivery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := &recorder{}
	sub, err := s.LiveQuery(ctx, UsersCollection, Filter{}, rec.record, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.SubscriberCount(UsersCollection))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, s.SubscriberCount(UsersCollection))

	require.NoError(t, s.Set(ctx, UsersCollection, "u1", map[string]any{"role": "vendor"}))
	assert.Equal(t, 1, rec.count())
}

func TestLiveQuery_ContextCancelCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore()
	_, err := s.LiveQuery(ctx, UsersCollection, Filter{}, func([]Document) {}, nil)
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, func() bool { return s.SubscriberCount(UsersCollection) == 0 }, time.Second, 5*time.Millisecond)
}

func TestUpdateFields_ArrayUnionAppends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, BookingsCollection, "b1", map[string]any{
		"messages": []any{map[string]any{"sender": "system", "text": "hi"}},
	}))

	require.NoError(t, s.AppendToArrayField(ctx, BookingsCollection, "b1", "messages", map[string]any{"sender": "vendor", "text": "hello"}))
	require.NoError(t, s.UpdateFields(ctx, BookingsCollection, "b1", map[string]any{
		"messages":  ArrayUnion(map[string]any{"sender": "traveler", "text": "thanks"}),
		"status":    "Replied",
		"updatedAt": ServerTimestamp,
	}))

	doc, err := s.GetByID(ctx, BookingsCollection, "b1")
	require.NoError(t, err)
	msgs := doc.Data["messages"].([]any)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].(map[string]any)["sender"])
	assert.Equal(t, "traveler", msgs[2].(map[string]any)["sender"])
	assert.Equal(t, "Replied", doc.Data["status"])
	assert.IsType(t, time.Time{}, doc.Data["updatedAt"])
}

func TestUpdateFields_MissingDocument(t *testing.T) {
	s := NewMemoryStore()
	err := s.UpdateFields(context.Background(), BookingsCollection, "nope", map[string]any{"status": "Confirmed"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetByID(context.Background(), BookingsCollection, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, PackagesCollection, "p1", map[string]any{"name": "Ella Hike"}))

	doc, err := s.GetByID(ctx, PackagesCollection, "p1")
	require.NoError(t, err)
	doc.Data["name"] = "mutated"

	again, err := s.GetByID(ctx, PackagesCollection, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ella Hike", again.Data["name"])
}

func TestFilterMatchesAcrossNumericKinds(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, PackagesCollection, "p1", map[string]any{"price": 50}))

	docs, err := s.Query(ctx, PackagesCollection, Where("price", 50.0))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	assert.NoError(t, NewMemoryStore().Delete(context.Background(), PackagesCollection, "ghost"))
}
