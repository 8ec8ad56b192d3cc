package middleware

import (
	"net/http"

	"arone/models"
	"arone/services/gate"
	"arone/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the session's stored role equals role.
// Denials carry a redirect and no error text.
func RequireRole(g *gate.Gate, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		verdict, err := g.Check(c.Request.Context(), GetSession(c), role)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to resolve role", err.Error())
			c.Abort()
			return
		}
		if !verdict.Allowed {
			status := http.StatusForbidden
			if verdict.Redirect == utils.RouteLogin {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"redirect": verdict.Redirect})
			return
		}
		c.Set("role", verdict.Role)
		c.Next()
	}
}
