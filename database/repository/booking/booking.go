package bookingRepo

import (
	"arone/database"
	"arone/database/repository/decode"
	itineraryRepo "arone/database/repository/itinerary"
	"arone/models"
)

// DecodeBooking reads a bookings document, coalescing status, prices and senders.
func DecodeBooking(doc database.Document) models.Booking {
	d := doc.Data
	b := models.Booking{
		ID:            doc.ID,
		PackageID:     decode.String(d[models.FieldPackageID]),
		PackageName:   decode.String(d[models.FieldPackageName]),
		PackagePrice:  decode.FloatPtr(d[models.FieldPackagePrice]),
		TotalPrice:    decode.FloatPtr(d[models.FieldTotalPrice]),
		VendorID:      decode.String(d[models.FieldVendorID]),
		TravelerID:    decode.String(d[models.FieldTravelerID]),
		TravelerEmail: decode.String(d[models.FieldTravelerEmail]),
		Status:        models.ParseBookingStatus(decode.String(d[models.FieldStatus])),
		CreatedAt:     decode.Time(d[models.FieldCreatedAt]),
	}
	raw := decode.Maps(d[models.FieldMessages])
	b.Messages = make([]models.Message, 0, len(raw))
	for _, m := range raw {
		b.Messages = append(b.Messages, DecodeMessage(m))
	}
	for _, item := range decode.Maps(d[models.FieldItems]) {
		b.Items = append(b.Items, itineraryRepo.DecodeItemFields("", item))
	}
	return b
}

// DecodeBookings reads a bookings snapshot.
func DecodeBookings(docs []database.Document) []models.Booking {
	out := make([]models.Booking, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DecodeBooking(doc))
	}
	return out
}

// DecodeMessage reads one chat entry. Unknown senders read as system.
func DecodeMessage(m map[string]any) models.Message {
	return models.Message{
		Sender:    models.ParseSender(decode.String(m[models.FieldSender])),
		Text:      decode.String(m[models.FieldText]),
		Timestamp: decode.Time(m[models.FieldTimestamp]),
	}
}

// MessageFields is the stored shape of a chat entry.
func MessageFields(m models.Message) map[string]any {
	return map[string]any{
		models.FieldSender:    string(m.Sender),
		models.FieldText:      m.Text,
		models.FieldTimestamp: m.Timestamp,
	}
}
