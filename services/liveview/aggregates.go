package liveview

import "arone/models"

// Revenue sums the amount of every confirmed booking.
func Revenue(bookings []models.Booking) float64 {
	total := 0.0
	for _, b := range bookings {
		if b.Status == models.StatusConfirmed {
			total += b.Amount()
		}
	}
	return total
}

// StatusCounts tallies bookings by status. Every status is present, possibly 0.
func StatusCounts(bookings []models.Booking) map[models.BookingStatus]int {
	counts := map[models.BookingStatus]int{
		models.StatusPending:   0,
		models.StatusConfirmed: 0,
		models.StatusReplied:   0,
	}
	for _, b := range bookings {
		counts[b.Status]++
	}
	return counts
}

// Subtotal sums itinerary item prices.
func Subtotal(items []models.ItineraryItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price
	}
	return total
}

// RoleCounts tallies users by resolved role.
func RoleCounts(users []models.User) map[models.Role]int {
	counts := map[models.Role]int{
		models.RoleTraveler: 0,
		models.RoleVendor:   0,
		models.RoleAdmin:    0,
	}
	for _, u := range users {
		counts[u.Role]++
	}
	return counts
}
