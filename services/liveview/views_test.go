package liveview

import (
	"context"
	"testing"

	"arone/database"
	"arone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func inputsOf(sources map[string][]database.Document) Inputs {
	in := Inputs{docs: map[string][]database.Document{}, loaded: map[string]bool{}}
	for name, docs := range sources {
		in.docs[name] = docs
		in.loaded[name] = true
		in.names = append(in.names, name)
	}
	return in
}

func doc(id string, data map[string]any) database.Document {
	return database.Document{ID: id, Data: data}
}

func TestRevenue_CoalescesAmounts(t *testing.T) {
	in := inputsOf(map[string][]database.Document{
		sourceBookings: {
			doc("b1", map[string]any{"status": "Confirmed", "packagePrice": 50}),
			doc("b2", map[string]any{"status": "Confirmed", "totalPrice": 120, "packagePrice": 10}),
			doc("b3", map[string]any{"status": "Confirmed"}),
			doc("b4", map[string]any{"status": "pending", "packagePrice": 999}),
			doc("b5", map[string]any{"status": "Replied", "packagePrice": 999}),
		},
		sourcePackages: {},
	})
	d := DeriveVendorDashboard(in)
	assert.Equal(t, 170.0, d.Revenue)
	assert.Equal(t, 1, d.StatusCounts[models.StatusPending])
	assert.Equal(t, 0.0, d.BookingRate)
}

func TestDeriveAdminOverview(t *testing.T) {
	in := inputsOf(map[string][]database.Document{
		sourceUsers: {
			doc("u1", map[string]any{"role": "vendor"}),
			doc("u2", map[string]any{}),
			doc("u3", map[string]any{"role": "admin"}),
		},
		sourcePackages: {
			doc("p1", map[string]any{"vendorId": "u1", "isFeatured": true}),
			doc("p2", map[string]any{"vendorId": "u1"}),
			doc("p3", map[string]any{"isFeatured": true}),
		},
		sourceBookings: {
			doc("b1", map[string]any{"status": "Confirmed", "totalPrice": 1000}),
			doc("b2", map[string]any{"status": "Pending", "packagePrice": 50}),
			doc("b3", map[string]any{"status": "Confirmed", "packagePrice": 200}),
		},
	})
	o := DeriveAdminOverview(in)
	assert.Equal(t, 1200.0, o.GMV)
	assert.InDelta(t, 180.0, o.Commission, 1e-9)
	assert.Equal(t, 1, o.ActiveVendors)
	assert.Equal(t, 2, o.FeaturedListings)
	assert.Equal(t, 400.0, o.FeaturedRevenue)
	assert.Equal(t, "1.0x", o.SystemLoad)
	assert.Equal(t, 1, o.RoleCounts[models.RoleTraveler])
	assert.Equal(t, 1, o.RoleCounts[models.RoleVendor])
	assert.Equal(t, 1, o.RoleCounts[models.RoleAdmin])
}

func TestDeriveMarketplace(t *testing.T) {
	in := inputsOf(map[string][]database.Document{
		sourcePackages: {
			doc("a", map[string]any{"location": "Ella", "vendorId": "V1"}),
			doc("b", map[string]any{"location": "Ella", "vendorId": "V2", "isFeatured": true}),
			doc("c", map[string]any{"location": "Galle", "vendorId": "V1"}),
			doc("d", map[string]any{"location": "Ella", "vendorId": "V1"}),
		},
	})
	m := DeriveMarketplace(in)
	require.Len(t, m.Packages, 4)
	assert.Equal(t, "b", m.Packages[0].ID)
	assert.Equal(t, []string{"a", "c", "d"}, []string{m.Packages[1].ID, m.Packages[2].ID, m.Packages[3].ID})
	assert.Equal(t, []Region{
		{Location: "Ella", Packages: 3, Vendors: 2},
		{Location: "Galle", Packages: 1, Vendors: 1},
	}, m.Regions)
}

func TestDeriveTravelerTrips(t *testing.T) {
	in := inputsOf(map[string][]database.Document{
		sourceBookings: {doc("b1", map[string]any{"packagePrice": "75", "status": "pending"})},
	})
	trips := DeriveTravelerTrips(in)
	require.Equal(t, 1, trips.Count)
	assert.Equal(t, "$75", trips.Trips[0].AmountDisplay)
	assert.Equal(t, models.StatusPending, trips.Trips[0].Status)
}

func TestCatalog(t *testing.T) {
	store := database.NewMemoryStore()
	c := NewCatalog(store, zap.NewNop())

	d, err := c.Lookup(VendorDashboardView)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, d.Role)
	assert.False(t, d.Public())

	d, err = c.Lookup(MarketplaceView)
	require.NoError(t, err)
	assert.True(t, d.Public())

	_, err = c.Lookup("vendor-hub-v2")
	assert.ErrorIs(t, err, ErrUnknownView)

	var got View[any]
	agg, err := c.Open(context.Background(), ItineraryView, "T1", func(v View[any]) { got = v })
	require.NoError(t, err)
	defer agg.Close()
	assert.False(t, got.Loading)
	assert.IsType(t, Itinerary{}, got.Data)
	assert.Equal(t, 1, store.SubscriberCount(database.ItinerariesCollection))
}
