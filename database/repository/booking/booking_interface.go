package bookingRepo

import (
	"context"

	"arone/models"
)

// BookingRepository defines methods for bookings/{id} access.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create inserts a booking document and returns its id.
	Create(ctx context.Context, fields map[string]any) (string, error)
	// SetStatus overwrites the status.
	SetStatus(ctx context.Context, id string, status models.BookingStatus) error
	// AppendMessage adds msg to the chat and applies extra field updates in the same write.
	AppendMessage(ctx context.Context, id string, msg models.Message, extra map[string]any) error
	Delete(ctx context.Context, id string) error
}
