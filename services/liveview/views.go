package liveview

import (
	"sort"

	"arone/database"
	bookingRepo "arone/database/repository/booking"
	itineraryRepo "arone/database/repository/itinerary"
	packageRepo "arone/database/repository/tourpackage"
	userRepo "arone/database/repository/user"
	"arone/models"
	"arone/services/pricing"
)

// View names.
const (
	VendorDashboardView = "vendor-dashboard"
	TravelerTripsView   = "traveler-trips"
	ItineraryView       = "itinerary"
	AdminOverviewView   = "admin-overview"
	MarketplaceView     = "marketplace"
)

// Source names.
const (
	sourceBookings = "bookings"
	sourcePackages = "packages"
	sourceUsers    = "users"
	sourceItems    = "items"
)

// FeaturedListingFee is billed per featured package.
const FeaturedListingFee = 200.0

// Inquiry is a booking joined to its package. Package is nil while the package is not
// loaded or no longer exists.
type Inquiry struct {
	models.Booking
	Package *models.TourPackage `json:"package,omitempty"`
}

// VendorDashboard is a vendor's listings, inquiries and earnings.
type VendorDashboard struct {
	Packages     []models.TourPackage         `json:"packages"`
	Inquiries    []Inquiry                    `json:"inquiries"`
	Revenue      float64                      `json:"revenue"`
	Commission   float64                      `json:"commission"`
	NetPayout    float64                      `json:"netPayout"`
	BookingRate  float64                      `json:"bookingRate"`
	LoadFactor   string                       `json:"loadFactor"`
	StatusCounts map[models.BookingStatus]int `json:"statusCounts"`
}

// DeriveVendorDashboard joins bookings to packages and computes earnings.
func DeriveVendorDashboard(in Inputs) VendorDashboard {
	pkgs := packageRepo.DecodePackages(in.Docs(sourcePackages))
	bookings := bookingRepo.DecodeBookings(in.Docs(sourceBookings))

	byID := make(map[string]models.TourPackage, len(pkgs))
	for _, p := range pkgs {
		byID[p.ID] = p
	}
	inquiries := make([]Inquiry, 0, len(bookings))
	for _, b := range bookings {
		inq := Inquiry{Booking: b}
		if p, ok := byID[b.PackageID]; ok {
			p := p
			inq.Package = &p
		}
		inquiries = append(inquiries, inq)
	}

	revenue := Revenue(bookings)
	rate := pricing.BookingRate(len(bookings), len(pkgs))
	return VendorDashboard{
		Packages:     pkgs,
		Inquiries:    inquiries,
		Revenue:      revenue,
		Commission:   pricing.Commission(revenue),
		NetPayout:    pricing.NetPayout(revenue),
		BookingRate:  rate,
		LoadFactor:   pricing.FormatLoadFactor(rate),
		StatusCounts: StatusCounts(bookings),
	}
}

// Trip is a traveler's booking with its display amount.
type Trip struct {
	models.Booking
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amountDisplay"`
}

// TravelerTrips lists a traveler's bookings.
type TravelerTrips struct {
	Trips []Trip `json:"trips"`
	Count int    `json:"count"`
}

func DeriveTravelerTrips(in Inputs) TravelerTrips {
	bookings := bookingRepo.DecodeBookings(in.Docs(sourceBookings))
	trips := make([]Trip, 0, len(bookings))
	for _, b := range bookings {
		trips = append(trips, Trip{Booking: b, Amount: b.Amount(), AmountDisplay: pricing.FormatPrice(b.Amount(), pricing.USD)})
	}
	return TravelerTrips{Trips: trips, Count: len(trips)}
}

// Itinerary is a traveler's plan with checkout totals.
type Itinerary struct {
	Items      []models.ItineraryItem `json:"items"`
	Subtotal   float64                `json:"subtotal"`
	BookingFee float64                `json:"bookingFee"`
	Total      float64                `json:"total"`
}

func DeriveItinerary(in Inputs) Itinerary {
	items := itineraryRepo.DecodeItineraryItems(in.Docs(sourceItems))
	sort.SliceStable(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	subtotal := Subtotal(items)
	fee := pricing.BookingFee(subtotal)
	return Itinerary{Items: items, Subtotal: subtotal, BookingFee: fee, Total: subtotal + fee}
}

// AdminOverview is the platform-wide picture.
type AdminOverview struct {
	Users            []models.User                `json:"users"`
	RoleCounts       map[models.Role]int          `json:"roleCounts"`
	GMV              float64                      `json:"gmv"`
	Commission       float64                      `json:"commission"`
	NetPayout        float64                      `json:"netPayout"`
	ActiveVendors    int                          `json:"activeVendors"`
	FeaturedListings int                          `json:"featuredListings"`
	FeaturedRevenue  float64                      `json:"featuredRevenue"`
	SystemLoad       string                       `json:"systemLoad"`
	StatusCounts     map[models.BookingStatus]int `json:"statusCounts"`
}

// DeriveAdminOverview counts active vendors as distinct owners of at least one package.
func DeriveAdminOverview(in Inputs) AdminOverview {
	users := userRepo.DecodeUsers(in.Docs(sourceUsers))
	pkgs := packageRepo.DecodePackages(in.Docs(sourcePackages))
	bookings := bookingRepo.DecodeBookings(in.Docs(sourceBookings))

	vendors := make(map[string]struct{})
	featured := 0
	for _, p := range pkgs {
		if !p.IsLegacy() {
			vendors[p.VendorID] = struct{}{}
		}
		if p.IsFeatured {
			featured++
		}
	}
	gmv := Revenue(bookings)
	return AdminOverview{
		Users:            users,
		RoleCounts:       RoleCounts(users),
		GMV:              gmv,
		Commission:       pricing.Commission(gmv),
		NetPayout:        pricing.NetPayout(gmv),
		ActiveVendors:    len(vendors),
		FeaturedListings: featured,
		FeaturedRevenue:  float64(featured) * FeaturedListingFee,
		SystemLoad:       pricing.FormatLoadFactor(pricing.BookingRate(len(bookings), len(pkgs))),
		StatusCounts:     StatusCounts(bookings),
	}
}

// Region summarizes the packages offered at one location.
type Region struct {
	Location string `json:"location"`
	Packages int    `json:"packages"`
	Vendors  int    `json:"vendors"`
}

// Marketplace is the public catalog.
type Marketplace struct {
	Packages []models.TourPackage `json:"packages"`
	Regions  []Region             `json:"regions"`
}

// DeriveMarketplace lists featured packages first and groups packages by location.
func DeriveMarketplace(in Inputs) Marketplace {
	pkgs := packageRepo.DecodePackages(in.Docs(sourcePackages))
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].IsFeatured && !pkgs[j].IsFeatured })

	type region struct {
		packages int
		vendors  map[string]struct{}
	}
	byLocation := make(map[string]*region)
	for _, p := range pkgs {
		if p.Location == "" {
			continue
		}
		r, ok := byLocation[p.Location]
		if !ok {
			r = &region{vendors: make(map[string]struct{})}
			byLocation[p.Location] = r
		}
		r.packages++
		if !p.IsLegacy() {
			r.vendors[p.VendorID] = struct{}{}
		}
	}
	regions := make([]Region, 0, len(byLocation))
	for loc, r := range byLocation {
		regions = append(regions, Region{Location: loc, Packages: r.packages, Vendors: len(r.vendors)})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Location < regions[j].Location })
	return Marketplace{Packages: pkgs, Regions: regions}
}

func vendorSources(uid string) []Source {
	return []Source{
		{Name: sourceBookings, Collection: database.BookingsCollection, Filter: database.Where(models.FieldVendorID, uid)},
		{Name: sourcePackages, Collection: database.PackagesCollection, Filter: database.Where(models.FieldVendorID, uid)},
	}
}

func travelerTripSources(uid string) []Source {
	return []Source{
		{Name: sourceBookings, Collection: database.BookingsCollection, Filter: database.Where(models.FieldTravelerID, uid)},
	}
}

func itinerarySources(uid string) []Source {
	return []Source{
		{Name: sourceItems, Collection: database.ItinerariesCollection, Filter: database.Where(models.FieldUserID, uid)},
	}
}

func adminSources(string) []Source {
	return []Source{
		{Name: sourceUsers, Collection: database.UsersCollection},
		{Name: sourcePackages, Collection: database.PackagesCollection},
		{Name: sourceBookings, Collection: database.BookingsCollection},
	}
}

func marketplaceSources(string) []Source {
	return []Source{
		{Name: sourcePackages, Collection: database.PackagesCollection},
	}
}
