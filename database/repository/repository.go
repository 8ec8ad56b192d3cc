package repository

import (
	"arone/database"
	bookingRepo "arone/database/repository/booking"
	itineraryRepo "arone/database/repository/itinerary"
	packageRepo "arone/database/repository/tourpackage"
	userRepo "arone/database/repository/user"
)

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewStoreUserRepo = userRepo.NewStoreUserRepo

// Re-export the PackageRepository interface and constructor.
type PackageRepository = packageRepo.PackageRepository

var NewStorePackageRepo = packageRepo.NewStorePackageRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewStoreBookingRepo = bookingRepo.NewStoreBookingRepo

// Re-export the ItineraryRepository interface and constructor.
type ItineraryRepository = itineraryRepo.ItineraryRepository

var NewStoreItineraryRepo = itineraryRepo.NewStoreItineraryRepo

// Repositories groups every repository over one store.
type Repositories struct {
	Users       UserRepository
	Packages    PackageRepository
	Bookings    BookingRepository
	Itineraries ItineraryRepository
}

// New builds all repositories on store.
func New(store database.DocumentStore) Repositories {
	return Repositories{
		Users:       NewStoreUserRepo(store),
		Packages:    NewStorePackageRepo(store),
		Bookings:    NewStoreBookingRepo(store),
		Itineraries: NewStoreItineraryRepo(store),
	}
}
