package itineraryRepo

import (
	"arone/database"
	"arone/database/repository/decode"
	"arone/models"
)

// DecodeItineraryItem reads an itineraries document.
func DecodeItineraryItem(doc database.Document) models.ItineraryItem {
	return DecodeItemFields(doc.ID, doc.Data)
}

// DecodeItemFields reads an item from a document body or from a bundle booking's items.
func DecodeItemFields(id string, d map[string]any) models.ItineraryItem {
	return models.ItineraryItem{
		ID:        id,
		UserID:    decode.String(d[models.FieldUserID]),
		PackageID: decode.String(d[models.FieldPackageID]),
		VendorID:  decode.String(d[models.FieldVendorID]),
		Name:      decode.String(d[models.FieldName]),
		Location:  decode.String(d[models.FieldLocation]),
		Img:       decode.String(d[models.FieldImg]),
		Price:     decode.FloatOrZero(d[models.FieldPrice]),
		AddedAt:   decode.Time(d[models.FieldAddedAt]),
	}
}

// DecodeItineraryItems reads an itineraries snapshot.
func DecodeItineraryItems(docs []database.Document) []models.ItineraryItem {
	items := make([]models.ItineraryItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, DecodeItineraryItem(doc))
	}
	return items
}

// BundleItemFields is the denormalized copy of an item stored on a bundle booking.
func BundleItemFields(item models.ItineraryItem) map[string]any {
	return map[string]any{
		models.FieldPackageID: item.PackageID,
		models.FieldVendorID:  item.VendorID,
		models.FieldName:      item.Name,
		models.FieldLocation:  item.Location,
		models.FieldImg:       item.Img,
		models.FieldPrice:     item.Price,
	}
}
