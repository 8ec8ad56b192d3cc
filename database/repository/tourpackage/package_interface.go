package packageRepo

import (
	"context"

	"arone/models"
)

// PackageRepository defines methods for packages/{id} access.
type PackageRepository interface {
	GetByID(ctx context.Context, id string) (*models.TourPackage, error)
	GetAll(ctx context.Context) ([]models.TourPackage, error)
	GetByVendor(ctx context.Context, vendorID string) ([]models.TourPackage, error)
	// Create inserts a package document and returns its id.
	Create(ctx context.Context, fields map[string]any) (string, error)
	// Update patches an existing package.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}
