// Package liveview keeps derived view models in sync with live document store queries.
//
// An Aggregator opens one live query per Source, remembers the latest snapshot of each,
// and recomputes the whole view from scratch whenever any of them emits.
package liveview

import (
	"context"
	"sync"

	"arone/database"

	"go.uber.org/zap"
)

// Source is one live query feeding a view.
type Source struct {
	Name       string
	Collection string
	Filter     database.Filter
}

// Inputs is the latest known snapshot of every source of a view.
type Inputs struct {
	docs   map[string][]database.Document
	loaded map[string]bool
	names  []string
}

// Docs returns the latest snapshot of a source, nil before it loaded.
func (in Inputs) Docs(name string) []database.Document {
	return in.docs[name]
}

// Loaded reports whether the source delivered at least one snapshot.
func (in Inputs) Loaded(name string) bool {
	return in.loaded[name]
}

// Ready reports whether every source has loaded.
func (in Inputs) Ready() bool {
	for _, n := range in.names {
		if !in.loaded[n] {
			return false
		}
	}
	return true
}

// View is one emission of an aggregator.
type View[T any] struct {
	Name    string `json:"view"`
	Loading bool   `json:"loading"`
	Data    T      `json:"data"`
	Seq     uint64 `json:"-"`
}

// Aggregator merges live sources into a derived view of type T.
type Aggregator[T any] struct {
	name    string
	store   database.DocumentStore
	sources []Source
	derive  func(Inputs) T
	onView  func(View[T])
	logger  *zap.Logger

	mu     sync.Mutex
	docs   map[string][]database.Document
	loaded map[string]bool
	subs   []database.Subscription
	seq    uint64
	closed bool

	// emitMu serializes onView; emitted is the seq of the last view handed out.
	emitMu  sync.Mutex
	emitted uint64
	latest  View[T]
	hasView bool

	closeOnce sync.Once
}

// New creates an aggregator. Nothing is subscribed until Start.
func New[T any](name string, store database.DocumentStore, sources []Source, derive func(Inputs) T, onView func(View[T]), logger *zap.Logger) *Aggregator[T] {
	if onView == nil {
		onView = func(View[T]) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator[T]{
		name:    name,
		store:   store,
		sources: sources,
		derive:  derive,
		onView:  onView,
		logger:  logger,
		docs:    make(map[string][]database.Document, len(sources)),
		loaded:  make(map[string]bool, len(sources)),
	}
}

// Start opens every source. A source that fails to open is logged and keeps the view
// loading.
func (a *Aggregator[T]) Start(ctx context.Context) {
	for _, src := range a.sources {
		src := src
		sub, err := a.store.LiveQuery(ctx, src.Collection, src.Filter,
			func(docs []database.Document) { a.onSnapshot(src.Name, docs) },
			func(err error) {
				a.logger.Error("live source failed", zap.String("view", a.name), zap.String("source", src.Name), zap.Error(err))
			},
		)
		if err != nil {
			a.logger.Error("failed to open live source", zap.String("view", a.name), zap.String("source", src.Name), zap.Error(err))
			continue
		}

		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			sub.Close()
			return
		}
		a.subs = append(a.subs, sub)
		a.mu.Unlock()
	}
}

func (a *Aggregator[T]) onSnapshot(source string, docs []database.Document) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.docs[source] = docs
	a.loaded[source] = true
	a.seq++
	seq := a.seq
	in := a.inputsLocked()
	a.mu.Unlock()

	view := View[T]{Name: a.name, Loading: !in.Ready(), Data: a.derive(in), Seq: seq}

	a.emitMu.Lock()
	defer a.emitMu.Unlock()
	if seq <= a.emitted || a.isClosed() {
		return
	}
	a.emitted = seq
	a.latest = view
	a.hasView = true
	a.onView(view)
}

func (a *Aggregator[T]) inputsLocked() Inputs {
	in := Inputs{
		docs:   make(map[string][]database.Document, len(a.docs)),
		loaded: make(map[string]bool, len(a.loaded)),
		names:  make([]string, 0, len(a.sources)),
	}
	for k, v := range a.docs {
		in.docs[k] = v
	}
	for k, v := range a.loaded {
		in.loaded[k] = v
	}
	for _, s := range a.sources {
		in.names = append(in.names, s.Name)
	}
	return in
}

func (a *Aggregator[T]) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Latest returns the last emitted view, or a loading view if nothing was emitted yet.
func (a *Aggregator[T]) Latest() View[T] {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()
	if !a.hasView {
		return View[T]{Name: a.name, Loading: true}
	}
	return a.latest
}

// Close closes every subscription exactly once. Later snapshots are ignored. Safe to
// call from inside onView.
func (a *Aggregator[T]) Close() {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		subs := a.subs
		a.subs = nil
		a.mu.Unlock()

		for _, sub := range subs {
			sub.Close()
		}
	})
}
