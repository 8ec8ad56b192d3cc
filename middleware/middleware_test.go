package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"arone/auth"
	"arone/database"
	userRepo "arone/database/repository/user"
	"arone/models"
	"arone/services/gate"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockIdentity struct {
	auth.IdentityProvider
	sessions map[string]*auth.Session
}

func (m *mockIdentity) CurrentSession(_ context.Context, token string) (*auth.Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, auth.ErrNoSession
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), database.UsersCollection, "V1", map[string]any{"role": "vendor"}))
	g := gate.New(userRepo.NewStoreUserRepo(store))

	identity := &mockIdentity{sessions: map[string]*auth.Session{
		"vendor-token":   {UserID: "V1"},
		"traveler-token": {UserID: "T1"},
	}}
	r := gin.New()
	r.Use(SessionMiddleware(identity))
	r.GET("/me", RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).UserID)
	})
	r.GET("/vendor", RequireRole(g, models.RoleVendor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	r := newRouter(t)

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())

	w = do(r, "/me", "Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", "Bearer vendor-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "V1", w.Body.String())

	w = do(r, "/me?token=traveler-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T1", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := newRouter(t)

	w := do(r, "/vendor", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())

	w = do(r, "/vendor", "Bearer traveler-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"redirect":"/"}`, w.Body.String())

	w = do(r, "/vendor", "Bearer vendor-token")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
