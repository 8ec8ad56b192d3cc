package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"arone/auth"
	"arone/middleware"
	"arone/services/liveview"
	"arone/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// liveFrame is one websocket message. Redirect frames end the stream.
type liveFrame struct {
	View     string `json:"view"`
	Loading  bool   `json:"loading"`
	Data     any    `json:"data,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// liveConn owns the write side of a socket. Only the newest pending frame is kept, so a
// slow client skips intermediate views instead of queueing them.
type liveConn struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu      sync.Mutex
	pending *liveFrame
	final   bool

	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newLiveConn(conn *websocket.Conn, logger *zap.Logger) *liveConn {
	return &liveConn{
		conn:   conn,
		logger: logger,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (l *liveConn) push(f liveFrame, final bool) {
	l.mu.Lock()
	if l.final {
		l.mu.Unlock()
		return
	}
	l.pending = &f
	l.final = final
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *liveConn) take() (*liveFrame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := l.pending
	l.pending = nil
	return f, l.final
}

// stop ends the write loop and closes the socket, which also unblocks the read loop.
func (l *liveConn) stop() {
	l.once.Do(func() {
		close(l.done)
		l.conn.Close()
	})
}

func (l *liveConn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer l.stop()

	for {
		select {
		case <-l.done:
			return
		case <-l.signal:
			f, final := l.take()
			if f == nil {
				continue
			}
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteJSON(f); err != nil {
				l.logger.Debug("live view write failed", zap.String("view", f.View), zap.Error(err))
				return
			}
			if final {
				l.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, f.Redirect),
					time.Now().Add(writeWait))
				return
			}
		case <-ticker.C:
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client messages and returns when the client goes away.
func (l *liveConn) readLoop() {
	l.conn.SetReadDeadline(time.Now().Add(pongWait))
	l.conn.SetPongHandler(func(string) error {
		l.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := l.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// LiveViewHandler streams a view over a websocket. Protected views re-run the gate on
// every session change of the viewer and close with a redirect frame once access is lost.
func (h *ViewHandler) LiveViewHandler(c *gin.Context) {
	def, uid, ok := h.authorize(c)
	if !ok {
		return
	}
	logger := getLogger(c)
	token := middleware.BearerToken(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.String("view", def.Name), zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	lc := newLiveConn(conn, logger)
	defer lc.stop()
	go lc.writeLoop()

	agg, err := h.Catalog.Open(ctx, def.Name, uid, func(v liveview.View[any]) {
		lc.push(liveFrame{View: v.Name, Loading: v.Loading, Data: v.Data}, false)
	})
	if err != nil {
		logger.Error("Failed to open live view", zap.String("view", def.Name), zap.Error(err))
		return
	}
	defer agg.Close()

	if !def.Public() {
		unsubscribe := h.Identity.OnSessionChange(uid, func(auth.SessionEvent) {
			go h.recheck(ctx, lc, agg, def, token)
		})
		defer unsubscribe()
	}

	logger.Info("Live view opened", zap.String("view", def.Name), zap.String("userId", uid))
	lc.readLoop()
	logger.Info("Live view closed", zap.String("view", def.Name), zap.String("userId", uid))
}

// recheck re-runs the gate for an open protected view after a session change.
func (h *ViewHandler) recheck(ctx context.Context, lc *liveConn, agg *liveview.Aggregator[any], def liveview.Definition, token string) {
	if ctx.Err() != nil {
		return
	}
	session, err := h.Identity.CurrentSession(ctx, token)
	if err != nil {
		session = nil
	}
	verdict, err := h.Gate.Check(ctx, session, def.Role)
	if err != nil {
		lc.logger.Error("Failed to re-check live view access", zap.String("view", def.Name), zap.Error(err))
		return
	}
	if verdict.Allowed {
		return
	}
	redirect := verdict.Redirect
	if redirect == "" {
		redirect = utils.RouteHome
	}
	agg.Close()
	lc.push(liveFrame{View: def.Name, Redirect: redirect}, true)
}
