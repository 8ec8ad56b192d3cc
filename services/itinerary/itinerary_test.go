package itinerary

import (
	"context"
	"testing"

	"arone/database"
	bookingRepo "arone/database/repository/booking"
	itineraryRepo "arone/database/repository/itinerary"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNotifier struct {
	users []string
}

func (m *mockNotifier) NotifyUser(_ context.Context, userID, _, _ string, _ map[string]string) error {
	m.users = append(m.users, userID)
	return nil
}

func newService(t *testing.T, retain bool) (*DefaultItineraryService, *database.MemoryStore, *mockNotifier) {
	t.Helper()
	store := database.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "ella", map[string]any{"vendorId": "V1", "name": "Ella Hike", "location": "Ella", "price": 50}))
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "galle", map[string]any{"vendorId": "V1", "name": "Galle Walk", "location": "Galle", "price": "40"}))
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "suite", map[string]any{"vendorId": "V2", "name": "Colombo Suite", "location": "Colombo", "price": 200}))

	n := &mockNotifier{}
	svc := NewItineraryService(
		itineraryRepo.NewStoreItineraryRepo(store),
		packageRepo.NewStorePackageRepo(store),
		bookingRepo.NewStoreBookingRepo(store),
		n, nil, retain, zap.NewNop(),
	)
	return svc, store, n
}

func add(t *testing.T, svc *DefaultItineraryService, travelerID string, packageIDs ...string) []string {
	t.Helper()
	var ids []string
	for _, p := range packageIDs {
		id, err := svc.AddItem(context.Background(), travelerID, models.ItineraryInput{PackageID: p})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestFinalize_CreatesOneBundleBooking(t *testing.T) {
	svc, store, n := newService(t, true)
	ctx := context.Background()
	add(t, svc, "T1", "ella", "galle", "suite")

	id, err := svc.Finalize(ctx, "T1", "t@x.com")
	require.NoError(t, err)

	b, err := bookingRepo.NewStoreBookingRepo(store).GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, b.TotalPrice)
	assert.Equal(t, 290.0, *b.TotalPrice)
	assert.Equal(t, 290.0, b.Amount())
	assert.Equal(t, "Custom Itinerary (3 stops)", b.PackageName)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Empty(t, b.VendorID, "mixed vendors leave vendorId unset")
	require.Len(t, b.Messages, 1)
	assert.Equal(t, models.SenderSystem, b.Messages[0].Sender)
	require.Len(t, b.Items, 3)
	assert.ElementsMatch(t, []string{"V1", "V2"}, n.users)

	items, err := store.Query(ctx, database.ItinerariesCollection, database.Where("userId", "T1"))
	require.NoError(t, err)
	assert.Len(t, items, 3, "source items are retained")
}

func TestFinalize_SingleVendorAndClearing(t *testing.T) {
	svc, store, _ := newService(t, false)
	ctx := context.Background()
	add(t, svc, "T1", "ella", "galle")

	id, err := svc.Finalize(ctx, "T1", "t@x.com")
	require.NoError(t, err)

	b, err := bookingRepo.NewStoreBookingRepo(store).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "V1", b.VendorID)

	items, err := store.Query(ctx, database.ItinerariesCollection, database.Where("userId", "T1"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFinalize_EmptyPlan(t *testing.T) {
	svc, store, _ := newService(t, true)
	_, err := svc.Finalize(context.Background(), "T1", "t@x.com")
	assert.ErrorIs(t, err, ErrEmptyItinerary)

	docs, err := store.Query(context.Background(), database.BookingsCollection, database.Filter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestAddAndRemoveItem(t *testing.T) {
	svc, store, _ := newService(t, true)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "T1", models.ItineraryInput{PackageID: "missing"})
	assert.ErrorIs(t, err, ErrPackageNotFound)

	ids := add(t, svc, "T1", "galle")
	item, err := itineraryRepo.NewStoreItineraryRepo(store).GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 40.0, item.Price)
	assert.Equal(t, "Galle Walk", item.Name)
	assert.False(t, item.AddedAt.IsZero())

	assert.ErrorIs(t, svc.RemoveItem(ctx, "T2", ids[0]), ErrNotOwner)
	require.NoError(t, svc.RemoveItem(ctx, "T1", ids[0]))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "T1", ids[0]), ErrItemNotFound)
}

func TestBundleVendor(t *testing.T) {
	assert.Equal(t, "V1", BundleVendor([]models.ItineraryItem{{VendorID: "V1"}, {VendorID: "V1"}}))
	assert.Empty(t, BundleVendor([]models.ItineraryItem{{VendorID: "V1"}, {VendorID: "V2"}}))
	assert.Empty(t, BundleVendor([]models.ItineraryItem{{VendorID: "V1"}, {}}))
	assert.Empty(t, BundleVendor(nil))
}
