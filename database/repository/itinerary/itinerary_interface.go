package itineraryRepo

import (
	"context"

	"arone/models"
)

// ItineraryRepository defines methods for itineraries/{id} access.
type ItineraryRepository interface {
	GetByID(ctx context.Context, id string) (*models.ItineraryItem, error)
	// GetByUser returns every item in a traveler's plan.
	GetByUser(ctx context.Context, userID string) ([]models.ItineraryItem, error)
	// Add inserts an item stamped with the store's add time and returns its id.
	Add(ctx context.Context, item models.ItineraryItem) (string, error)
	Delete(ctx context.Context, id string) error
}
