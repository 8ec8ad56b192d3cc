package handlers

import (
	"net/http"

	"arone/middleware"
	"arone/services/user"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Users user.UserService
}

func NewAdminHandler(users user.UserService) *AdminHandler {
	return &AdminHandler{Users: users}
}

// ToggleRoleHandler flips a user between vendor and traveler.
func (h *AdminHandler) ToggleRoleHandler(c *gin.Context) {
	role, err := h.Users.ToggleUserRole(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "role": role})
}

func (h *AdminHandler) DeleteUserHandler(c *gin.Context) {
	if err := h.Users.DeleteUser(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
