package handlers

import (
	"arone/auth"
	"arone/services/gate"
)

// HandlerBundle groups every endpoint handler with the pieces routes need for middleware.
type HandlerBundle struct {
	Identity auth.IdentityProvider
	Gate     *gate.Gate

	Auth     *AuthHandler
	Admin    *AdminHandler
	Packages *PackageHandler
	Bookings *BookingHandler
	Views    *ViewHandler
}
