package models

import "time"

// ItineraryItem is a package a traveler saved to their plan, denormalized at add time.
type ItineraryItem struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	PackageID string    `json:"packageId"`
	VendorID  string    `json:"vendorId,omitempty"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Img       string    `json:"img"`
	Price     float64   `json:"price"`
	AddedAt   time.Time `json:"addedAt"`
}

// ItineraryInput is the request body for adding a package to the plan.
type ItineraryInput struct {
	PackageID string `json:"packageId" binding:"required"`
}
