package models

import "time"

// CancellationPolicy is the refund rule a vendor attaches to a package.
type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "Flexible"
	PolicyStrict   CancellationPolicy = "Strict"
)

// Valid reports whether the policy is one of the known values.
func (p CancellationPolicy) Valid() bool {
	return p == PolicyFlexible || p == PolicyStrict
}

// TourPackage is a packages/{id} listing.
type TourPackage struct {
	ID                 string             `json:"id"`
	VendorID           string             `json:"vendorId,omitempty"`
	Name               string             `json:"name"`
	Location           string             `json:"location"`
	Price              float64            `json:"price"`                   // Standard rate, 0 when absent
	SeasonalPrice      *float64           `json:"seasonalPrice,omitempty"` // Peak rate
	CancellationPolicy CancellationPolicy `json:"cancellationPolicy"`
	Img                string             `json:"img"`
	Details            string             `json:"details"`
	IsFeatured         bool               `json:"isFeatured"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// IsLegacy reports a package created before vendor ownership was recorded.
// Legacy packages cannot receive inquiries.
func (p TourPackage) IsLegacy() bool {
	return p.VendorID == ""
}

// PackageInput is the create/update request body. Prices arrive as numbers or numeric
// strings and are coerced before they are stored.
type PackageInput struct {
	Name               string             `json:"name"`
	Location           string             `json:"location"`
	Price              any                `json:"price"`
	SeasonalPrice      any                `json:"seasonalPrice"`
	CancellationPolicy CancellationPolicy `json:"cancellationPolicy"`
	Img                string             `json:"img"`
	Details            string             `json:"details"`
	IsFeatured         bool               `json:"isFeatured"`
}
