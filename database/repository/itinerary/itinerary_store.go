package itineraryRepo

import (
	"context"
	"fmt"

	"arone/database"
	"arone/models"
)

// StoreItineraryRepo implements ItineraryRepository on a DocumentStore.
type StoreItineraryRepo struct {
	store database.DocumentStore
}

// NewStoreItineraryRepo creates an itinerary repository.
func NewStoreItineraryRepo(store database.DocumentStore) *StoreItineraryRepo {
	return &StoreItineraryRepo{store: store}
}

func (r *StoreItineraryRepo) GetByID(ctx context.Context, id string) (*models.ItineraryItem, error) {
	doc, err := r.store.GetByID(ctx, database.ItinerariesCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve itinerary item with id %s: %w", id, err)
	}
	item := DecodeItineraryItem(*doc)
	return &item, nil
}

func (r *StoreItineraryRepo) GetByUser(ctx context.Context, userID string) ([]models.ItineraryItem, error) {
	docs, err := r.store.Query(ctx, database.ItinerariesCollection, database.Where(models.FieldUserID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary of %s: %w", userID, err)
	}
	return DecodeItineraryItems(docs), nil
}

func (r *StoreItineraryRepo) Add(ctx context.Context, item models.ItineraryItem) (string, error) {
	id, err := r.store.Insert(ctx, database.ItinerariesCollection, map[string]any{
		models.FieldUserID:    item.UserID,
		models.FieldPackageID: item.PackageID,
		models.FieldVendorID:  item.VendorID,
		models.FieldName:      item.Name,
		models.FieldLocation:  item.Location,
		models.FieldImg:       item.Img,
		models.FieldPrice:     item.Price,
		models.FieldAddedAt:   database.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add itinerary item: %w", err)
	}
	return id, nil
}

func (r *StoreItineraryRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.ItinerariesCollection, id); err != nil {
		return fmt.Errorf("failed to delete itinerary item with id %s: %w", id, err)
	}
	return nil
}
