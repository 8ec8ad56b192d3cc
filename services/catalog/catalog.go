// Package catalog handles vendor package listings.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arone/database"
	"arone/database/repository/decode"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"
	"arone/services/events"

	"go.uber.org/zap"
)

var (
	ErrInvalidPackage  = errors.New("invalid package")
	ErrPackageNotFound = errors.New("package not found")
	ErrNotOwner        = errors.New("package belongs to another vendor")
)

// CatalogService is the vendor-facing package API.
type CatalogService interface {
	CreatePackage(ctx context.Context, vendorID string, input models.PackageInput) (string, error)
	UpdatePackage(ctx context.Context, vendorID, packageID string, input models.PackageInput) error
	DeletePackage(ctx context.Context, vendorID, packageID string) error
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Repo      packageRepo.PackageRepository
	Publisher events.Publisher
	Logger    *zap.Logger
}

func NewCatalogService(repo packageRepo.PackageRepository, publisher events.Publisher, logger *zap.Logger) *DefaultCatalogService {
	return &DefaultCatalogService{Repo: repo, Publisher: publisher, Logger: logger}
}

// PackageFields validates input and returns the editable fields to store. An empty policy
// defaults to Flexible.
func PackageFields(input models.PackageInput) (map[string]any, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	img := strings.TrimSpace(input.Img)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPackage)
	case location == "":
		return nil, fmt.Errorf("%w: location is required", ErrInvalidPackage)
	case img == "":
		return nil, fmt.Errorf("%w: img is required", ErrInvalidPackage)
	}

	price, ok := decode.Float(input.Price)
	if !ok {
		return nil, fmt.Errorf("%w: price must be a number", ErrInvalidPackage)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidPackage)
	}

	policy := input.CancellationPolicy
	if policy == "" {
		policy = models.PolicyFlexible
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: cancellationPolicy must be Flexible or Strict", ErrInvalidPackage)
	}

	fields := map[string]any{
		models.FieldName:               name,
		models.FieldLocation:           location,
		models.FieldPrice:              price,
		models.FieldCancellationPolicy: string(policy),
		models.FieldImg:                img,
		models.FieldDetails:            strings.TrimSpace(input.Details),
		models.FieldIsFeatured:         input.IsFeatured,
	}

	// Seasonal price is optional; a blank value clears it.
	if s, isString := input.SeasonalPrice.(string); input.SeasonalPrice == nil || (isString && strings.TrimSpace(s) == "") {
		fields[models.FieldSeasonalPrice] = nil
	} else {
		seasonal, ok := decode.Float(input.SeasonalPrice)
		if !ok {
			return nil, fmt.Errorf("%w: seasonalPrice must be a number", ErrInvalidPackage)
		}
		fields[models.FieldSeasonalPrice] = seasonal
	}
	return fields, nil
}

func (s *DefaultCatalogService) CreatePackage(ctx context.Context, vendorID string, input models.PackageInput) (string, error) {
	fields, err := PackageFields(input)
	if err != nil {
		return "", err
	}
	fields[models.FieldVendorID] = vendorID
	fields[models.FieldCreatedAt] = database.ServerTimestamp
	fields[models.FieldUpdatedAt] = database.ServerTimestamp

	id, err := s.Repo.Create(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("CreatePackage: %w", err)
	}
	s.Logger.Info("Package created", zap.String("vendorId", vendorID), zap.String("packageId", id))
	events.Emit(ctx, s.Publisher, s.Logger, events.PackageCreated, vendorID, id, map[string]any{
		"name":     fields[models.FieldName],
		"location": fields[models.FieldLocation],
		"price":    fields[models.FieldPrice],
	})
	return id, nil
}

func (s *DefaultCatalogService) UpdatePackage(ctx context.Context, vendorID, packageID string, input models.PackageInput) error {
	if _, err := s.owned(ctx, vendorID, packageID); err != nil {
		return err
	}
	fields, err := PackageFields(input)
	if err != nil {
		return err
	}
	fields[models.FieldUpdatedAt] = database.ServerTimestamp

	if err := s.Repo.Update(ctx, packageID, fields); err != nil {
		return fmt.Errorf("UpdatePackage: %w", err)
	}
	events.Emit(ctx, s.Publisher, s.Logger, events.PackageUpdated, vendorID, packageID, nil)
	return nil
}

func (s *DefaultCatalogService) DeletePackage(ctx context.Context, vendorID, packageID string) error {
	if _, err := s.owned(ctx, vendorID, packageID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, packageID); err != nil {
		return fmt.Errorf("DeletePackage: %w", err)
	}
	s.Logger.Info("Package deleted", zap.String("vendorId", vendorID), zap.String("packageId", packageID))
	events.Emit(ctx, s.Publisher, s.Logger, events.PackageDeleted, vendorID, packageID, nil)
	return nil
}

// owned loads a package and checks that vendorID created it. Legacy packages have no owner.
func (s *DefaultCatalogService) owned(ctx context.Context, vendorID, packageID string) (*models.TourPackage, error) {
	pkg, err := s.Repo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if pkg.VendorID != vendorID {
		return nil, ErrNotOwner
	}
	return pkg, nil
}
