package bookingRepo

import (
	"context"
	"fmt"

	"arone/database"
	"arone/models"
)

// StoreBookingRepo implements BookingRepository on a DocumentStore.
type StoreBookingRepo struct {
	store database.DocumentStore
}

// NewStoreBookingRepo creates a booking repository.
func NewStoreBookingRepo(store database.DocumentStore) *StoreBookingRepo {
	return &StoreBookingRepo{store: store}
}

func (r *StoreBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	doc, err := r.store.GetByID(ctx, database.BookingsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve booking with id %s: %w", id, err)
	}
	b := DecodeBooking(*doc)
	return &b, nil
}

func (r *StoreBookingRepo) Create(ctx context.Context, fields map[string]any) (string, error) {
	id, err := r.store.Insert(ctx, database.BookingsCollection, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}
	return id, nil
}

func (r *StoreBookingRepo) SetStatus(ctx context.Context, id string, status models.BookingStatus) error {
	err := r.store.UpdateFields(ctx, database.BookingsCollection, id, map[string]any{models.FieldStatus: string(status)})
	if err != nil {
		return fmt.Errorf("failed to update status of booking %s: %w", id, err)
	}
	return nil
}

func (r *StoreBookingRepo) AppendMessage(ctx context.Context, id string, msg models.Message, extra map[string]any) error {
	if len(extra) == 0 {
		if err := r.store.AppendToArrayField(ctx, database.BookingsCollection, id, models.FieldMessages, MessageFields(msg)); err != nil {
			return fmt.Errorf("failed to append message to booking %s: %w", id, err)
		}
		return nil
	}
	fields := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		fields[k] = v
	}
	fields[models.FieldMessages] = database.ArrayUnion(MessageFields(msg))
	if err := r.store.UpdateFields(ctx, database.BookingsCollection, id, fields); err != nil {
		return fmt.Errorf("failed to append message to booking %s: %w", id, err)
	}
	return nil
}

func (r *StoreBookingRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.BookingsCollection, id); err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	return nil
}
