package handlers

import (
	"errors"
	"net/http"

	"arone/auth"
	"arone/database"
	"arone/services/catalog"
	"arone/services/inquiry"
	"arone/services/itinerary"
	"arone/services/liveview"
	"arone/services/storage"
	"arone/services/user"
	"arone/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidPackage),
		errors.Is(err, inquiry.ErrEmptyMessage),
		errors.Is(err, itinerary.ErrEmptyItinerary),
		errors.Is(err, user.ErrRoleNotAllowed),
		errors.Is(err, user.ErrInvalidNickname),
		errors.Is(err, user.ErrInvalidFCMToken),
		errors.Is(err, storage.ErrUnsupportedImage),
		errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrNotOwner),
		errors.Is(err, inquiry.ErrNotParty),
		errors.Is(err, itinerary.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrPackageNotFound),
		errors.Is(err, inquiry.ErrPackageNotFound),
		errors.Is(err, inquiry.ErrBookingNotFound),
		errors.Is(err, itinerary.ErrPackageNotFound),
		errors.Is(err, itinerary.ErrItemNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, liveview.ErrUnknownView),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, inquiry.ErrLegacyPackage),
		errors.Is(err, user.ErrRoleNotToggleable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail reports err as a single blocking message carrying its raw text.
func fail(c *gin.Context, err error) {
	utils.Alert(c, statusFor(err), err)
}
