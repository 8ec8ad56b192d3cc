package handlers

import (
	"context"
	"net/http"
	"time"

	"arone/auth"
	"arone/middleware"
	"arone/services/gate"
	"arone/services/liveview"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// snapshotTimeout bounds how long a one-shot view waits for every source to load.
const snapshotTimeout = 5 * time.Second

// ViewHandler serves the canonical views, once over HTTP or live over a websocket.
type ViewHandler struct {
	Catalog  *liveview.Catalog
	Gate     *gate.Gate
	Identity auth.IdentityProvider
}

func NewViewHandler(catalog *liveview.Catalog, g *gate.Gate, identity auth.IdentityProvider) *ViewHandler {
	return &ViewHandler{Catalog: catalog, Gate: g, Identity: identity}
}

// authorize resolves the view and runs the role gate for protected views. It writes the
// response itself and returns false when the request must stop.
func (h *ViewHandler) authorize(c *gin.Context) (liveview.Definition, string, bool) {
	def, err := h.Catalog.Lookup(c.Param("view"))
	if err != nil {
		fail(c, err)
		return liveview.Definition{}, "", false
	}
	session := middleware.GetSession(c)
	uid := ""
	if session != nil {
		uid = session.UserID
	}
	if def.Public() {
		return def, uid, true
	}

	verdict, err := h.Gate.Check(c.Request.Context(), session, def.Role)
	if err != nil {
		fail(c, err)
		return liveview.Definition{}, "", false
	}
	if !verdict.Allowed {
		status := http.StatusForbidden
		if session == nil {
			status = http.StatusUnauthorized
		}
		getLogger(c).Info("View access denied", zap.String("view", def.Name), zap.String("redirect", verdict.Redirect))
		c.JSON(status, gin.H{"redirect": verdict.Redirect})
		return liveview.Definition{}, "", false
	}
	return def, uid, true
}

// GetViewHandler returns the view once every source has loaded, or the latest partial view
// after snapshotTimeout.
func (h *ViewHandler) GetViewHandler(c *gin.Context) {
	def, uid, ok := h.authorize(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), snapshotTimeout)
	defer cancel()

	ready := make(chan struct{})
	var signalled bool
	agg, err := h.Catalog.Open(ctx, def.Name, uid, func(v liveview.View[any]) {
		// onView calls are serialized by the aggregator.
		if !v.Loading && !signalled {
			signalled = true
			close(ready)
		}
	})
	if err != nil {
		fail(c, err)
		return
	}
	defer agg.Close()

	select {
	case <-ready:
	case <-ctx.Done():
		getLogger(c).Warn("View not fully loaded", zap.String("view", def.Name))
	}
	c.JSON(http.StatusOK, agg.Latest())
}
