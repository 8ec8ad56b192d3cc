package liveview

import (
	"context"
	"errors"
	"fmt"

	"arone/database"
	"arone/models"

	"go.uber.org/zap"
)

// ErrUnknownView is returned for a view name that is not in the catalog.
var ErrUnknownView = errors.New("unknown view")

// Definition describes one canonical view.
type Definition struct {
	Name string
	// Role is required to open the view. Empty means public.
	Role    models.Role
	sources func(uid string) []Source
	derive  func(Inputs) any
}

// Public reports whether the view needs no session.
func (d Definition) Public() bool {
	return d.Role == ""
}

// Sources lists the live queries of the view for a signed-in user.
func (d Definition) Sources(uid string) []Source {
	return d.sources(uid)
}

func define[T any](name string, role models.Role, sources func(string) []Source, derive func(Inputs) T) Definition {
	return Definition{
		Name:    name,
		Role:    role,
		sources: sources,
		derive:  func(in Inputs) any { return derive(in) },
	}
}

// Catalog holds exactly one definition per view.
type Catalog struct {
	store  database.DocumentStore
	logger *zap.Logger
	views  map[string]Definition
}

// NewCatalog registers the canonical views.
func NewCatalog(store database.DocumentStore, logger *zap.Logger) *Catalog {
	c := &Catalog{store: store, logger: logger, views: make(map[string]Definition)}
	for _, d := range []Definition{
		define(VendorDashboardView, models.RoleVendor, vendorSources, DeriveVendorDashboard),
		define(TravelerTripsView, models.RoleTraveler, travelerTripSources, DeriveTravelerTrips),
		define(ItineraryView, models.RoleTraveler, itinerarySources, DeriveItinerary),
		define(AdminOverviewView, models.RoleAdmin, adminSources, DeriveAdminOverview),
		define(MarketplaceView, "", marketplaceSources, DeriveMarketplace),
	} {
		c.views[d.Name] = d
	}
	return c
}

// Lookup returns the definition of a view.
func (c *Catalog) Lookup(name string) (Definition, error) {
	d, ok := c.views[name]
	if !ok {
		return Definition{}, fmt.Errorf("Lookup %q: %w", name, ErrUnknownView)
	}
	return d, nil
}

// Open starts an aggregator for the view scoped to uid. The caller owns the aggregator
// and must Close it.
func (c *Catalog) Open(ctx context.Context, name, uid string, onView func(View[any])) (*Aggregator[any], error) {
	d, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	agg := New(d.Name, c.store, d.sources(uid), d.derive, onView, c.logger)
	agg.Start(ctx)
	return agg, nil
}
