package packageRepo

import (
	"context"
	"fmt"

	"arone/database"
	"arone/models"
)

// StorePackageRepo implements PackageRepository on a DocumentStore.
type StorePackageRepo struct {
	store database.DocumentStore
}

// NewStorePackageRepo creates a package repository.
func NewStorePackageRepo(store database.DocumentStore) *StorePackageRepo {
	return &StorePackageRepo{store: store}
}

func (r *StorePackageRepo) GetByID(ctx context.Context, id string) (*models.TourPackage, error) {
	doc, err := r.store.GetByID(ctx, database.PackagesCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve package with id %s: %w", id, err)
	}
	pkg := DecodePackage(*doc)
	return &pkg, nil
}

func (r *StorePackageRepo) GetAll(ctx context.Context) ([]models.TourPackage, error) {
	return r.list(ctx, database.Filter{})
}

func (r *StorePackageRepo) GetByVendor(ctx context.Context, vendorID string) ([]models.TourPackage, error) {
	return r.list(ctx, database.Where(models.FieldVendorID, vendorID))
}

func (r *StorePackageRepo) Create(ctx context.Context, fields map[string]any) (string, error) {
	id, err := r.store.Insert(ctx, database.PackagesCollection, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create package: %w", err)
	}
	return id, nil
}

func (r *StorePackageRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.store.UpdateFields(ctx, database.PackagesCollection, id, fields); err != nil {
		return fmt.Errorf("failed to update package with id %s: %w", id, err)
	}
	return nil
}

func (r *StorePackageRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.PackagesCollection, id); err != nil {
		return fmt.Errorf("failed to delete package with id %s: %w", id, err)
	}
	return nil
}

func (r *StorePackageRepo) list(ctx context.Context, filter database.Filter) ([]models.TourPackage, error) {
	docs, err := r.store.Query(ctx, database.PackagesCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return DecodePackages(docs), nil
}
