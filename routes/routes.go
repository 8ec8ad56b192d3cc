package routes

import (
	"net/http"

	"arone/handlers"
	"arone/middleware"
	"arone/models"
	"arone/utils"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Arone", "services": utils.GetHealthStatus()})
	})
}

// RegisterAuthRoutes registers sign-up, sign-in and the signed-in user's profile.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
		api.POST("/logout", middleware.RequireSession(), hb.Auth.LogoutHandler)
	}

	me := r.Group("/api/users/me")
	{
		me.Use(middleware.RequireSession())
		me.GET("", hb.Auth.MeHandler)
		me.PUT("/nickname", hb.Auth.UpdateNicknameHandler)
		me.PUT("/fcm-token", hb.Auth.UpdateFCMTokenHandler)
	}
}

// RegisterCatalogRoutes registers the public package catalog.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/packages", hb.Packages.ListPackagesHandler)
		api.GET("/packages/:id", hb.Packages.GetPackageHandler)
		api.GET("/compare", hb.Packages.CompareHandler)
	}
}

// RegisterVendorRoutes registers package management and booking decisions for vendors.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	vendor := r.Group("/api/vendor")
	{
		vendor.Use(middleware.RequireRole(hb.Gate, models.RoleVendor))
		vendor.POST("/packages", hb.Packages.CreatePackageHandler)
		vendor.POST("/packages/image", hb.Packages.UploadImageHandler)
		vendor.PUT("/packages/:id", hb.Packages.UpdatePackageHandler)
		vendor.DELETE("/packages/:id", hb.Packages.DeletePackageHandler)
		vendor.PUT("/bookings/:id/confirm", hb.Bookings.ConfirmBookingHandler)
		vendor.DELETE("/bookings/:id", hb.Bookings.DeleteBookingHandler)
	}
}

// RegisterTravelerRoutes registers inquiries, chat and the itinerary.
func RegisterTravelerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/bookings", middleware.RequireRole(hb.Gate, models.RoleTraveler), hb.Bookings.CreateInquiryHandler)
	// Both parties of a booking post to its chat.
	r.POST("/api/bookings/:id/messages", middleware.RequireSession(), hb.Bookings.AppendMessageHandler)

	itinerary := r.Group("/api/itinerary")
	{
		itinerary.Use(middleware.RequireRole(hb.Gate, models.RoleTraveler))
		itinerary.POST("", hb.Bookings.AddItineraryItemHandler)
		itinerary.POST("/finalize", hb.Bookings.FinalizeItineraryHandler)
		itinerary.DELETE("/:id", hb.Bookings.RemoveItineraryItemHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.RequireRole(hb.Gate, models.RoleAdmin))
		adminGroup.PUT("/users/:id/role", hb.Admin.ToggleRoleHandler)
		adminGroup.DELETE("/users/:id", hb.Admin.DeleteUserHandler)
	}
}

// RegisterViewRoutes registers the canonical views. Each view runs its own role gate.
func RegisterViewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/views/:view", hb.Views.GetViewHandler)
	r.GET("/api/live/:view", hb.Views.LiveViewHandler)
}

// RegisterRoutes resolves sessions for every request and registers all endpoints.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(middleware.SessionMiddleware(hb.Identity))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterVendorRoutes(r, hb)
	RegisterTravelerRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterViewRoutes(r, hb)
}
