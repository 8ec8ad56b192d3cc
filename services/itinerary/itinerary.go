// Package itinerary manages a traveler's plan and turns it into a bundle booking.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arone/database"
	bookingRepo "arone/database/repository/booking"
	itineraryRepo "arone/database/repository/itinerary"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"
	"arone/services/events"
	"arone/services/notification"

	"go.uber.org/zap"
)

var (
	ErrPackageNotFound = errors.New("this package is no longer available")
	ErrItemNotFound    = errors.New("itinerary item not found")
	ErrNotOwner        = errors.New("itinerary item belongs to another traveler")
	ErrEmptyItinerary  = errors.New("add at least one stop before finalizing")
)

// ItineraryService is the traveler plan API.
type ItineraryService interface {
	AddItem(ctx context.Context, travelerID string, input models.ItineraryInput) (string, error)
	RemoveItem(ctx context.Context, travelerID, itemID string) error
	Finalize(ctx context.Context, travelerID, travelerEmail string) (string, error)
}

// DefaultItineraryService is the production implementation.
type DefaultItineraryService struct {
	Items     itineraryRepo.ItineraryRepository
	Packages  packageRepo.PackageRepository
	Bookings  bookingRepo.BookingRepository
	Notifier  notification.Notifier
	Publisher events.Publisher
	Logger    *zap.Logger
	// RetainSourceItems keeps the plan after it has been copied into a booking.
	RetainSourceItems bool
	now               func() time.Time
}

func NewItineraryService(items itineraryRepo.ItineraryRepository, packages packageRepo.PackageRepository, bookings bookingRepo.BookingRepository, notifier notification.Notifier, publisher events.Publisher, retainSourceItems bool, logger *zap.Logger) *DefaultItineraryService {
	return &DefaultItineraryService{
		Items:             items,
		Packages:          packages,
		Bookings:          bookings,
		Notifier:          notifier,
		Publisher:         publisher,
		Logger:            logger,
		RetainSourceItems: retainSourceItems,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// AddItem copies the package's current name, location, image and price into the plan.
func (s *DefaultItineraryService) AddItem(ctx context.Context, travelerID string, input models.ItineraryInput) (string, error) {
	pkg, err := s.Packages.GetByID(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrPackageNotFound
		}
		return "", fmt.Errorf("AddItem: %w", err)
	}

	id, err := s.Items.Add(ctx, models.ItineraryItem{
		UserID:    travelerID,
		PackageID: pkg.ID,
		VendorID:  pkg.VendorID,
		Name:      pkg.Name,
		Location:  pkg.Location,
		Img:       pkg.Img,
		Price:     pkg.Price,
	})
	if err != nil {
		return "", fmt.Errorf("AddItem: %w", err)
	}
	return id, nil
}

func (s *DefaultItineraryService) RemoveItem(ctx context.Context, travelerID, itemID string) error {
	item, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("RemoveItem: %w", err)
	}
	if item.UserID != travelerID {
		return ErrNotOwner
	}
	if err := s.Items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("RemoveItem: %w", err)
	}
	return nil
}

// Finalize reads the whole plan and creates one Pending bundle booking priced at the sum of
// its items, opened by a single system message.
func (s *DefaultItineraryService) Finalize(ctx context.Context, travelerID, travelerEmail string) (string, error) {
	items, err := s.Items.GetByUser(ctx, travelerID)
	if err != nil {
		return "", fmt.Errorf("Finalize: %w", err)
	}
	if len(items) == 0 {
		return "", ErrEmptyItinerary
	}

	total := 0.0
	stored := make([]any, 0, len(items))
	for _, item := range items {
		total += item.Price
		stored = append(stored, itineraryRepo.BundleItemFields(item))
	}
	welcome := models.Message{
		Sender:    models.SenderSystem,
		Text:      fmt.Sprintf("Your custom itinerary of %d stops has been submitted. Vendors will reply here.", len(items)),
		Timestamp: s.now(),
	}
	vendorID := BundleVendor(items)

	id, err := s.Bookings.Create(ctx, map[string]any{
		models.FieldPackageName:   fmt.Sprintf("Custom Itinerary (%d stops)", len(items)),
		models.FieldTotalPrice:    total,
		models.FieldVendorID:      vendorID,
		models.FieldTravelerID:    travelerID,
		models.FieldTravelerEmail: travelerEmail,
		models.FieldStatus:        string(models.StatusPending),
		models.FieldMessages:      []any{bookingRepo.MessageFields(welcome)},
		models.FieldItems:         stored,
		models.FieldCreatedAt:     database.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("Finalize: %w", err)
	}
	s.Logger.Info("Itinerary finalized", zap.String("bookingId", id), zap.String("travelerId", travelerID), zap.Int("stops", len(items)), zap.Float64("total", total))

	if !s.RetainSourceItems {
		for _, item := range items {
			if err := s.Items.Delete(ctx, item.ID); err != nil {
				s.Logger.Warn("failed to clear finalized itinerary item", zap.String("itemId", item.ID), zap.Error(err))
			}
		}
	}

	for _, v := range vendorsOf(items) {
		notification.Send(ctx, s.Notifier, s.Logger, v, "New itinerary inquiry", welcome.Text, map[string]string{"bookingId": id})
	}
	events.Emit(ctx, s.Publisher, s.Logger, events.ItineraryFinalized, travelerID, id, map[string]any{
		"stops": len(items),
		"total": total,
	})
	return id, nil
}

// BundleVendor is the single vendor behind every item, or "" when the items span several
// vendors or any item has none.
func BundleVendor(items []models.ItineraryItem) string {
	vendor := ""
	for i, item := range items {
		if item.VendorID == "" {
			return ""
		}
		if i == 0 {
			vendor = item.VendorID
			continue
		}
		if item.VendorID != vendor {
			return ""
		}
	}
	return vendor
}

func vendorsOf(items []models.ItineraryItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if item.VendorID != "" && !seen[item.VendorID] {
			seen[item.VendorID] = true
			out = append(out, item.VendorID)
		}
	}
	return out
}
