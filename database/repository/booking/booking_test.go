package bookingRepo

import (
	"context"
	"testing"
	"time"

	"arone/database"
	"arone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBooking_Coalescing(t *testing.T) {
	cases := []struct {
		name       string
		data       map[string]any
		wantStatus models.BookingStatus
		wantAmount float64
	}{
		{"lowercase pending", map[string]any{"status": "pending", "packagePrice": 50}, models.StatusPending, 50},
		{"absent status", map[string]any{"packagePrice": "75"}, models.StatusPending, 75},
		{"total wins", map[string]any{"status": "Confirmed", "totalPrice": 300.0, "packagePrice": 50}, models.StatusConfirmed, 300},
		{"no price", map[string]any{"status": "Replied"}, models.StatusReplied, 0},
		{"garbage price", map[string]any{"status": "Confirmed", "packagePrice": "n/a"}, models.StatusConfirmed, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := DecodeBooking(database.Document{ID: "b1", Data: tc.data})
			assert.Equal(t, tc.wantStatus, b.Status)
			assert.Equal(t, tc.wantAmount, b.Amount())
		})
	}
}

func TestDecodeBooking_MessagesAndItems(t *testing.T) {
	b := DecodeBooking(database.Document{ID: "b1", Data: map[string]any{
		"messages": []any{
			map[string]any{"sender": "vendor", "text": "hello"},
			map[string]any{"sender": "robot", "text": "beep"},
		},
		"items": []any{map[string]any{"packageId": "p1", "name": "Ella Hike", "price": 50}},
	}})
	require.Len(t, b.Messages, 2)
	assert.Equal(t, models.SenderVendor, b.Messages[0].Sender)
	assert.Equal(t, models.SenderSystem, b.Messages[1].Sender)
	require.Len(t, b.Items, 1)
	assert.Equal(t, 50.0, b.Items[0].Price)
	assert.True(t, b.IsBundle())
}

func TestAppendMessage_WithStatusInOneWrite(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(ctx, database.BookingsCollection, "b1", map[string]any{"status": "Pending", "messages": []any{}}))

	var pushes int
	sub, err := store.LiveQuery(ctx, database.BookingsCollection, database.Filter{}, func([]database.Document) { pushes++ }, nil)
	require.NoError(t, err)
	defer sub.Close()

	repo := NewStoreBookingRepo(store)
	msg := models.Message{Sender: models.SenderVendor, Text: "Available!", Timestamp: time.Now()}
	require.NoError(t, repo.AppendMessage(ctx, "b1", msg, map[string]any{"status": string(models.StatusReplied)}))

	assert.Equal(t, 2, pushes, "initial snapshot plus one combined write")
	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, got.Status)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Available!", got.Messages[0].Text)
}
