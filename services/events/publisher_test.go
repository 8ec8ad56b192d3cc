package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockPublisher struct {
	publishFn func(ctx context.Context, routingKey string, payload any) error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.publishFn(ctx, routingKey, payload)
}
func (m *mockPublisher) Close() {}

func TestEmit_WrapsEnvelope(t *testing.T) {
	var gotKey string
	var got Event
	pub := &mockPublisher{publishFn: func(_ context.Context, key string, payload any) error {
		gotKey = key
		got = payload.(Event)
		return nil
	}}

	Emit(context.Background(), pub, zap.NewNop(), BookingConfirmed, "V1", "b1", map[string]any{"amount": 50.0})

	assert.Equal(t, BookingConfirmed, gotKey)
	assert.Equal(t, BookingConfirmed, got.Type)
	assert.Equal(t, "V1", got.ActorID)
	assert.Equal(t, "b1", got.ResourceID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestEmit_SwallowsFailures(t *testing.T) {
	pub := &mockPublisher{publishFn: func(context.Context, string, any) error {
		return errors.New("connection closed")
	}}
	assert.NotPanics(t, func() {
		Emit(context.Background(), pub, zap.NewNop(), UserDeleted, "admin", "u1", nil)
		Emit(context.Background(), nil, zap.NewNop(), UserDeleted, "admin", "u1", nil)
	})
}
