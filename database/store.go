package database

import (
	"context"
	"errors"
)

// Collection names.
const (
	UsersCollection       = "users"
	PackagesCollection    = "packages"
	BookingsCollection    = "bookings"
	ItinerariesCollection = "itineraries"
	AccountsCollection    = "accounts"
)

// ErrNotFound is returned by every adapter when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Filter restricts a query to documents whose Field equals Value.
// A zero Filter matches the whole collection.
type Filter struct {
	Field string
	Value any
}

// Where builds an equality filter.
func Where(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Field == ""
}

// Document is a stored record: the store-assigned id and its fields.
type Document struct {
	ID   string
	Data map[string]any
}

// SnapshotFunc receives the full current result set of a live query.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives a terminal live query failure.
type ErrorFunc func(err error)

// Subscription is the cancel handle of a live query. Close is idempotent.
type Subscription interface {
	Close()
}

// DocumentStore is the realtime document database the application runs on.
type DocumentStore interface {
	// LiveQuery calls onSnapshot with every matching document each time the result
	// set changes. Snapshots of one subscription never go back in time.
	LiveQuery(ctx context.Context, collection string, filter Filter, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// UpdateFields patches top-level fields of an existing document in one write.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	AppendToArrayField(ctx context.Context, collection, id, field string, value any) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// serverTimestamp marks a field the store stamps with its own clock on write.
type serverTimestamp struct{}

// ServerTimestamp is replaced by the store's write time.
var ServerTimestamp = serverTimestamp{}

// arrayUnion appends values to an array field inside an update.
type arrayUnion struct {
	Values []any
}

// ArrayUnion appends values to an array field as part of UpdateFields.
func ArrayUnion(values ...any) any {
	return arrayUnion{Values: values}
}

// appendViaUpdate implements AppendToArrayField on top of UpdateFields.
func appendViaUpdate(ctx context.Context, s DocumentStore, collection, id, field string, value any) error {
	return s.UpdateFields(ctx, collection, id, map[string]any{field: ArrayUnion(value)})
}
