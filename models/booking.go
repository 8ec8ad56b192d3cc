package models

import "time"

// BookingStatus is the lifecycle state of an inquiry.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusReplied   BookingStatus = "Replied"
)

// ParseBookingStatus coalesces stored statuses. The lowercase "pending" variant, an absent
// status and unknown values all read as Pending.
func ParseBookingStatus(stored string) BookingStatus {
	switch stored {
	case string(StatusConfirmed):
		return StatusConfirmed
	case string(StatusReplied):
		return StatusReplied
	default:
		return StatusPending
	}
}

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderTraveler Sender = "traveler"
	SenderVendor   Sender = "vendor"
	SenderSystem   Sender = "system"
)

// ParseSender maps unknown senders to system.
func ParseSender(stored string) Sender {
	switch Sender(stored) {
	case SenderTraveler:
		return SenderTraveler
	case SenderVendor:
		return SenderVendor
	default:
		return SenderSystem
	}
}

// Message is one entry of a booking's append-only chat.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Booking is a bookings/{id} inquiry, either for one package or a finalized itinerary.
type Booking struct {
	ID            string          `json:"id"`
	PackageID     string          `json:"packageId,omitempty"`
	PackageName   string          `json:"packageName"`
	PackagePrice  *float64        `json:"packagePrice,omitempty"`
	TotalPrice    *float64        `json:"totalPrice,omitempty"`
	VendorID      string          `json:"vendorId,omitempty"`
	TravelerID    string          `json:"travelerId"`
	TravelerEmail string          `json:"travelerEmail"`
	Status        BookingStatus   `json:"status"`
	Messages      []Message       `json:"messages"`
	Items         []ItineraryItem `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Amount is totalPrice when present, else packagePrice, else 0.
func (b Booking) Amount() float64 {
	if b.TotalPrice != nil {
		return *b.TotalPrice
	}
	if b.PackagePrice != nil {
		return *b.PackagePrice
	}
	return 0
}

// IsBundle reports a booking created from an itinerary.
func (b Booking) IsBundle() bool {
	return len(b.Items) > 0
}

// InquiryInput is the request body for a single-package inquiry.
type InquiryInput struct {
	PackageID string `json:"packageId" binding:"required"`
	Message   string `json:"message"`
}

// MessageInput is the request body for a chat reply.
type MessageInput struct {
	Text string `json:"text" binding:"required"`
}
