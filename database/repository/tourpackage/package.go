package packageRepo

import (
	"arone/database"
	"arone/database/repository/decode"
	"arone/models"
)

// DecodePackage reads a packages document. Prices coerce from numbers or numeric strings;
// an unknown cancellation policy reads as Flexible.
func DecodePackage(doc database.Document) models.TourPackage {
	d := doc.Data
	policy := models.CancellationPolicy(decode.String(d[models.FieldCancellationPolicy]))
	if !policy.Valid() {
		policy = models.PolicyFlexible
	}
	return models.TourPackage{
		ID:                 doc.ID,
		VendorID:           decode.String(d[models.FieldVendorID]),
		Name:               decode.String(d[models.FieldName]),
		Location:           decode.String(d[models.FieldLocation]),
		Price:              decode.FloatOrZero(d[models.FieldPrice]),
		SeasonalPrice:      decode.FloatPtr(d[models.FieldSeasonalPrice]),
		CancellationPolicy: policy,
		Img:                decode.String(d[models.FieldImg]),
		Details:            decode.String(d[models.FieldDetails]),
		IsFeatured:         decode.Bool(d[models.FieldIsFeatured]),
		CreatedAt:          decode.Time(d[models.FieldCreatedAt]),
		UpdatedAt:          decode.Time(d[models.FieldUpdatedAt]),
	}
}

// DecodePackages reads a packages snapshot.
func DecodePackages(docs []database.Document) []models.TourPackage {
	pkgs := make([]models.TourPackage, 0, len(docs))
	for _, doc := range docs {
		pkgs = append(pkgs, DecodePackage(doc))
	}
	return pkgs
}
