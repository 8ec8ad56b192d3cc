// Package auth provides the identity providers sessions are issued by.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoSession means the token does not belong to an active session.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidCredentials is returned by SignIn for a bad email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned by RegisterAccount when the email already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// Session is the signed-in identity behind a token.
type Session struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Token       string    `json:"token,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// SessionEvent reports a sign-in or sign-out of a user.
type SessionEvent struct {
	UserID   string
	SignedIn bool
}

// IdentityProvider issues and verifies sessions.
type IdentityProvider interface {
	// CurrentSession resolves a token. Unknown, expired or revoked tokens wrap ErrNoSession.
	CurrentSession(ctx context.Context, token string) (*Session, error)
	// OnSessionChange calls fn on every sign-in or sign-out of userID until the returned
	// function is called.
	OnSessionChange(userID string, fn func(SessionEvent)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// RegisterAccount creates credentials and returns the new user id.
	RegisterAccount(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, session *Session) error
	UpdateDisplayName(ctx context.Context, userID, name string) error
}

// watchers fans session events out to per-user listeners.
type watchers struct {
	mu     sync.Mutex
	nextID int
	byUser map[string]map[int]func(SessionEvent)
}

func newWatchers() *watchers {
	return &watchers{byUser: make(map[string]map[int]func(SessionEvent))}
}

func (w *watchers) add(userID string, fn func(SessionEvent)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := w.nextID
	if w.byUser[userID] == nil {
		w.byUser[userID] = make(map[int]func(SessionEvent))
	}
	w.byUser[userID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.byUser[userID], id)
			if len(w.byUser[userID]) == 0 {
				delete(w.byUser, userID)
			}
		})
	}
}

func (w *watchers) notify(ev SessionEvent) {
	w.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(w.byUser[ev.UserID]))
	for _, fn := range w.byUser[ev.UserID] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (w *watchers) count(userID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.byUser[userID])
}
