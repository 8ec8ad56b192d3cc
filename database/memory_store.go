package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore. It backs local development and tests and
// behaves like the hosted stores: live queries receive full snapshots after every write
// that touches a matching document.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]map[string]map[string]any
	subs    map[string]map[*memorySub]struct{}
	version uint64
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]map[string]any),
		subs: make(map[string]map[*memorySub]struct{}),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type memorySub struct {
	store      *MemoryStore
	collection string
	filter     Filter
	onSnapshot SnapshotFunc

	deliverMu sync.Mutex
	delivered uint64
	closed    atomic.Bool
	closeOnce sync.Once
	stopCtx   func() bool
}

type pendingSnapshot struct {
	sub     *memorySub
	version uint64
	docs    []Document
}

func (s *MemoryStore) LiveQuery(ctx context.Context, collection string, filter Filter, onSnapshot SnapshotFunc, _ ErrorFunc) (Subscription, error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("LiveQuery: nil snapshot callback for %s", collection)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("LiveQuery: %w", err)
	}
	sub := &memorySub{store: s, collection: collection, filter: filter, onSnapshot: onSnapshot}
	sub.stopCtx = context.AfterFunc(ctx, sub.Close)

	s.mu.Lock()
	if sub.closed.Load() {
		s.mu.Unlock()
		return sub, nil
	}
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[*memorySub]struct{})
	}
	s.subs[collection][sub] = struct{}{}
	s.version++
	first := pendingSnapshot{sub: sub, version: s.version, docs: s.snapshotLocked(collection, filter)}
	s.mu.Unlock()

	sub.deliver(first.version, first.docs)
	return sub, nil
}

func (s *MemoryStore) GetByID(_ context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[collection][id]
	if !ok {
		return nil, fmt.Errorf("GetByID %s/%s: %w", collection, id, ErrNotFound)
	}
	return &Document{ID: id, Data: copyFields(data)}, nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, filter Filter) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(collection, filter), nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("Set", collection, id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	before := s.data[collection][id]
	after := resolveSentinels(flattenUnions(fields), s.now())
	s.data[collection][id] = after
	pending := s.commitLocked(collection, before, after)
	s.mu.Unlock()

	deliverAll(pending)
	return nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, collection, id string, fields map[string]any) error {
	if err := requireID("UpdateFields", collection, id); err != nil {
		return err
	}
	s.mu.Lock()
	before, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("UpdateFields %s/%s: %w", collection, id, ErrNotFound)
	}
	after := copyFields(before)
	now := s.now()
	for k, v := range fields {
		switch t := v.(type) {
		case serverTimestamp:
			after[k] = now
		case arrayUnion:
			existing, _ := after[k].([]any)
			for _, item := range t.Values {
				existing = append(existing, copyValue(item))
			}
			after[k] = existing
		default:
			after[k] = copyValue(v)
		}
	}
	s.data[collection][id] = after
	pending := s.commitLocked(collection, before, after)
	s.mu.Unlock()

	deliverAll(pending)
	return nil
}

func (s *MemoryStore) AppendToArrayField(ctx context.Context, collection, id, field string, value any) error {
	return appendViaUpdate(ctx, s, collection, id, field, value)
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	before, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.data[collection], id)
	pending := s.commitLocked(collection, before, nil)
	s.mu.Unlock()

	deliverAll(pending)
	return nil
}

// Close cancels every open subscription.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	var all []*memorySub
	for _, subs := range s.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	s.mu.Unlock()
	for _, sub := range all {
		sub.Close()
	}
	return nil
}

// SubscriberCount reports how many live queries are open on a collection.
func (s *MemoryStore) SubscriberCount(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[collection])
}

// commitLocked bumps the version and snapshots every subscription the write affects.
func (s *MemoryStore) commitLocked(collection string, before, after map[string]any) []pendingSnapshot {
	s.version++
	var pending []pendingSnapshot
	for sub := range s.subs[collection] {
		hitBefore := before != nil && matches(before, sub.filter)
		hitAfter := after != nil && matches(after, sub.filter)
		if !hitBefore && !hitAfter {
			continue
		}
		pending = append(pending, pendingSnapshot{
			sub:     sub,
			version: s.version,
			docs:    s.snapshotLocked(collection, sub.filter),
		})
	}
	return pending
}

func (s *MemoryStore) snapshotLocked(collection string, filter Filter) []Document {
	docs := make([]Document, 0, len(s.data[collection]))
	for id, data := range s.data[collection] {
		if matches(data, filter) {
			docs = append(docs, Document{ID: id, Data: copyFields(data)})
		}
	}
	sortDocuments(docs)
	return docs
}

func (s *MemoryStore) removeSub(sub *memorySub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[sub.collection], sub)
}

func deliverAll(pending []pendingSnapshot) {
	for _, p := range pending {
		p.sub.deliver(p.version, p.docs)
	}
}

// deliver drops snapshots older than the last one handed out.
func (sub *memorySub) deliver(version uint64, docs []Document) {
	sub.deliverMu.Lock()
	defer sub.deliverMu.Unlock()
	if sub.closed.Load() || version <= sub.delivered {
		return
	}
	sub.delivered = version
	sub.onSnapshot(docs)
}

func (sub *memorySub) Close() {
	sub.closeOnce.Do(func() {
		sub.closed.Store(true)
		if sub.stopCtx != nil {
			sub.stopCtx()
		}
		sub.store.removeSub(sub)
	})
}

// flattenUnions turns array unions inside a full write into plain arrays.
func flattenUnions(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if u, ok := v.(arrayUnion); ok {
			out[k] = copyValue(u.Values)
			continue
		}
		out[k] = v
	}
	return out
}
