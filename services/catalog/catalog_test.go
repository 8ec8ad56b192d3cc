package catalog

import (
	"context"
	"testing"

	"arone/database"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"
	"arone/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() {}

func newService(t *testing.T) (*DefaultCatalogService, *database.MemoryStore, *recordingPublisher) {
	t.Helper()
	store := database.NewMemoryStore()
	pub := &recordingPublisher{}
	return NewCatalogService(packageRepo.NewStorePackageRepo(store), pub, zap.NewNop()), store, pub
}

func ellaHike() models.PackageInput {
	return models.PackageInput{
		Name:          "Ella Hike",
		Location:      "Ella",
		Price:         "50",
		SeasonalPrice: 70,
		Img:           "https://img/ella.jpg",
		Details:       "Sunrise trek",
	}
}

func TestCreatePackage_StampsOwnerAndCoercesPrices(t *testing.T) {
	svc, store, pub := newService(t)

	id, err := svc.CreatePackage(context.Background(), "V1", ellaHike())
	require.NoError(t, err)

	doc, err := store.GetByID(context.Background(), database.PackagesCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "V1", doc.Data["vendorId"])
	assert.Equal(t, 50.0, doc.Data["price"])
	assert.Equal(t, 70.0, doc.Data["seasonalPrice"])
	assert.Equal(t, "Flexible", doc.Data["cancellationPolicy"])
	assert.NotNil(t, doc.Data["createdAt"])
	assert.NotNil(t, doc.Data["updatedAt"])
	assert.Equal(t, []string{events.PackageCreated}, pub.keys)
}

func TestPackageFields_Validation(t *testing.T) {
	cases := map[string]func(*models.PackageInput){
		"missing name":      func(in *models.PackageInput) { in.Name = " " },
		"missing location":  func(in *models.PackageInput) { in.Location = "" },
		"missing img":       func(in *models.PackageInput) { in.Img = "" },
		"non-numeric price": func(in *models.PackageInput) { in.Price = "fifty" },
		"absent price":      func(in *models.PackageInput) { in.Price = nil },
		"bad seasonal":      func(in *models.PackageInput) { in.SeasonalPrice = true },
		"bad policy":        func(in *models.PackageInput) { in.CancellationPolicy = "strict" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := ellaHike()
			mutate(&in)
			_, err := PackageFields(in)
			assert.ErrorIs(t, err, ErrInvalidPackage)
		})
	}

	in := ellaHike()
	in.SeasonalPrice = ""
	fields, err := PackageFields(in)
	require.NoError(t, err)
	assert.Nil(t, fields["seasonalPrice"])
}

func TestUpdateAndDelete_EnforceOwnership(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	id, err := svc.CreatePackage(ctx, "V1", ellaHike())
	require.NoError(t, err)

	in := ellaHike()
	in.Price = 65
	assert.ErrorIs(t, svc.UpdatePackage(ctx, "V2", id, in), ErrNotOwner)
	assert.ErrorIs(t, svc.DeletePackage(ctx, "V2", id), ErrNotOwner)

	require.NoError(t, svc.UpdatePackage(ctx, "V1", id, in))
	doc, err := store.GetByID(ctx, database.PackagesCollection, id)
	require.NoError(t, err)
	assert.Equal(t, 65.0, doc.Data["price"])
	assert.Equal(t, "V1", doc.Data["vendorId"])

	require.NoError(t, svc.DeletePackage(ctx, "V1", id))
	assert.ErrorIs(t, svc.DeletePackage(ctx, "V1", id), ErrPackageNotFound)
}

func TestLegacyPackageHasNoOwner(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "legacy", map[string]any{"name": "Old"}))

	assert.ErrorIs(t, svc.DeletePackage(ctx, "V1", "legacy"), ErrNotOwner)
}
