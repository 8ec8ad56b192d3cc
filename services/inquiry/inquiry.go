// Package inquiry handles booking inquiries and their chat.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arone/database"
	bookingRepo "arone/database/repository/booking"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"
	"arone/services/events"
	"arone/services/notification"

	"go.uber.org/zap"
)

var (
	ErrPackageNotFound = errors.New("this package is no longer available")
	ErrLegacyPackage   = errors.New("this package has no vendor and cannot receive inquiries")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotParty        = errors.New("not a party to this booking")
	ErrEmptyMessage    = errors.New("message text is required")
)

// Party is the signed-in user acting on a booking.
type Party struct {
	ID    string
	Email string
}

// InquiryService is the booking lifecycle API.
type InquiryService interface {
	CreateInquiry(ctx context.Context, traveler Party, input models.InquiryInput) (string, error)
	ConfirmBooking(ctx context.Context, vendorID, bookingID string) error
	DeleteBooking(ctx context.Context, vendorID, bookingID string) error
	AppendMessage(ctx context.Context, actor Party, bookingID, text string) error
}

// DefaultInquiryService is the production implementation.
type DefaultInquiryService struct {
	Packages  packageRepo.PackageRepository
	Bookings  bookingRepo.BookingRepository
	Notifier  notification.Notifier
	Publisher events.Publisher
	Logger    *zap.Logger
	now       func() time.Time
}

func NewInquiryService(packages packageRepo.PackageRepository, bookings bookingRepo.BookingRepository, notifier notification.Notifier, publisher events.Publisher, logger *zap.Logger) *DefaultInquiryService {
	return &DefaultInquiryService{
		Packages:  packages,
		Bookings:  bookings,
		Notifier:  notifier,
		Publisher: publisher,
		Logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateInquiry opens a Pending booking for one package. Missing and legacy packages are
// refused before anything is written.
func (s *DefaultInquiryService) CreateInquiry(ctx context.Context, traveler Party, input models.InquiryInput) (string, error) {
	pkg, err := s.Packages.GetByID(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrPackageNotFound
		}
		return "", fmt.Errorf("CreateInquiry: %w", err)
	}
	if pkg.IsLegacy() {
		return "", ErrLegacyPackage
	}

	first := models.Message{Sender: models.SenderSystem, Text: fmt.Sprintf("Inquiry sent for %s.", pkg.Name), Timestamp: s.now()}
	if text := strings.TrimSpace(input.Message); text != "" {
		first = models.Message{Sender: models.SenderTraveler, Text: text, Timestamp: s.now()}
	}

	id, err := s.Bookings.Create(ctx, map[string]any{
		models.FieldPackageID:     pkg.ID,
		models.FieldPackageName:   pkg.Name,
		models.FieldPackagePrice:  pkg.Price,
		models.FieldVendorID:      pkg.VendorID,
		models.FieldTravelerID:    traveler.ID,
		models.FieldTravelerEmail: traveler.Email,
		models.FieldStatus:        string(models.StatusPending),
		models.FieldMessages:      []any{bookingRepo.MessageFields(first)},
		models.FieldCreatedAt:     database.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("CreateInquiry: %w", err)
	}

	s.Logger.Info("Inquiry created", zap.String("bookingId", id), zap.String("packageId", pkg.ID), zap.String("travelerId", traveler.ID))
	notification.Send(ctx, s.Notifier, s.Logger, pkg.VendorID, "New inquiry", fmt.Sprintf("%s asked about %s", traveler.Email, pkg.Name), map[string]string{"bookingId": id})
	events.Emit(ctx, s.Publisher, s.Logger, events.BookingCreated, traveler.ID, id, map[string]any{
		"packageId": pkg.ID,
		"vendorId":  pkg.VendorID,
		"amount":    pkg.Price,
	})
	return id, nil
}

func (s *DefaultInquiryService) ConfirmBooking(ctx context.Context, vendorID, bookingID string) error {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if !isVendorOf(b, vendorID) {
		return ErrNotParty
	}
	if err := s.Bookings.SetStatus(ctx, bookingID, models.StatusConfirmed); err != nil {
		return fmt.Errorf("ConfirmBooking: %w", err)
	}

	notification.Send(ctx, s.Notifier, s.Logger, b.TravelerID, "Booking confirmed", fmt.Sprintf("%s is confirmed", b.PackageName), map[string]string{"bookingId": bookingID})
	events.Emit(ctx, s.Publisher, s.Logger, events.BookingConfirmed, vendorID, bookingID, map[string]any{"amount": b.Amount()})
	return nil
}

func (s *DefaultInquiryService) DeleteBooking(ctx context.Context, vendorID, bookingID string) error {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if !isVendorOf(b, vendorID) {
		return ErrNotParty
	}
	if err := s.Bookings.Delete(ctx, bookingID); err != nil {
		return fmt.Errorf("DeleteBooking: %w", err)
	}
	s.Logger.Info("Booking deleted", zap.String("bookingId", bookingID), zap.String("vendorId", vendorID))
	events.Emit(ctx, s.Publisher, s.Logger, events.BookingDeleted, vendorID, bookingID, nil)
	return nil
}

// AppendMessage adds a chat entry from the traveler or the vendor of the booking. A vendor
// message marks the booking Replied in the same write unless it is already Confirmed.
func (s *DefaultInquiryService) AppendMessage(ctx context.Context, actor Party, bookingID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}

	var sender models.Sender
	var recipient string
	var extra map[string]any
	switch {
	case actor.ID == b.TravelerID:
		sender, recipient = models.SenderTraveler, b.VendorID
	case isVendorOf(b, actor.ID):
		sender, recipient = models.SenderVendor, b.TravelerID
		if b.Status != models.StatusConfirmed {
			extra = map[string]any{models.FieldStatus: string(models.StatusReplied)}
		}
	default:
		return ErrNotParty
	}

	msg := models.Message{Sender: sender, Text: text, Timestamp: s.now()}
	if err := s.Bookings.AppendMessage(ctx, bookingID, msg, extra); err != nil {
		return fmt.Errorf("AppendMessage: %w", err)
	}

	notification.Send(ctx, s.Notifier, s.Logger, recipient, "New message", text, map[string]string{"bookingId": bookingID})
	events.Emit(ctx, s.Publisher, s.Logger, events.BookingMessage, actor.ID, bookingID, map[string]any{"sender": string(sender)})
	return nil
}

func (s *DefaultInquiryService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// isVendorOf reports whether vendorID owns the booking. Bundles spanning several vendors have
// no vendorId; each vendor with an item in the bundle counts as a party.
func isVendorOf(b *models.Booking, vendorID string) bool {
	if vendorID == "" {
		return false
	}
	if b.VendorID != "" {
		return b.VendorID == vendorID
	}
	for _, item := range b.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}
