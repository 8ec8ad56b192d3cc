package middleware

import (
	"net/http"
	"strings"

	"arone/auth"
	"arone/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// BearerToken reads the session token from the Authorization header. Websocket clients
// cannot set headers, so the token query parameter is accepted too.
func BearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}

// SessionMiddleware resolves the token, when one is sent, and stores the session in the
// context. Requests without a valid session continue anonymously.
func SessionMiddleware(identity auth.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		session, err := identity.CurrentSession(c.Request.Context(), token)
		if err != nil {
			utils.GetLogger().Debug("Ignoring invalid session token", zap.String("path", c.FullPath()), zap.Error(err))
			c.Next()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the session set by SessionMiddleware, or nil.
func GetSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}

// RequireSession stops anonymous requests with a sign-in redirect.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"redirect": utils.RouteLogin})
			return
		}
		c.Next()
	}
}
