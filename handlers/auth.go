package handlers

import (
	"net/http"

	"arone/middleware"
	"arone/models"
	"arone/services/user"
	"arone/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, sign-in and the signed-in user's profile.
type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var reg models.UserRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration data", err.Error())
		return
	}
	resp, err := h.Users.Register(c.Request.Context(), reg)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid credentials", err.Error())
		return
	}
	resp, err := h.Users.SignIn(c.Request.Context(), creds)
	if err != nil {
		fail(c, err)
		return
	}
	getLogger(c).Info("User signed in", zap.String("userId", resp.ID), zap.String("role", string(resp.Role)))
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.Users.SignOut(c.Request.Context(), middleware.GetSession(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": utils.RouteLogin})
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	u, err := h.Users.Profile(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateNicknameHandler(c *gin.Context) {
	var body struct {
		Nickname string `json:"nickname" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid nickname", err.Error())
		return
	}
	if err := h.Users.UpdateNickname(c.Request.Context(), middleware.GetSession(c), body.Nickname); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nickname": body.Nickname})
}

func (h *AuthHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var body struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid FCM token", err.Error())
		return
	}
	if err := h.Users.RegisterFCMToken(c.Request.Context(), middleware.GetSession(c).UserID, body.Token); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
