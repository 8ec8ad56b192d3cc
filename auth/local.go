package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arone/database"
	"arone/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Account document fields.
const (
	accountEmail        = "email"
	accountPasswordHash = "passwordHash"
	accountDisplayName  = "displayName"
	accountCreatedAt    = "createdAt"
)

// LocalProvider keeps credentials in the accounts collection and issues HS256 session
// tokens whose ids are tracked in a SessionCache.
type LocalProvider struct {
	store    database.DocumentStore
	cache    SessionCache
	ttl      time.Duration
	logger   *zap.Logger
	watchers *watchers
}

// NewLocalProvider creates a local identity provider. A non-positive ttl falls back to
// utils.AuthCacheTTL.
func NewLocalProvider(store database.DocumentStore, cache SessionCache, ttl time.Duration, logger *zap.Logger) *LocalProvider {
	if ttl <= 0 {
		ttl = utils.AuthCacheTTL
	}
	return &LocalProvider{store: store, cache: cache, ttl: ttl, logger: logger, watchers: newWatchers()}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) RegisterAccount(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", errors.New("RegisterAccount: email and password are required")
	}
	existing, err := p.store.Query(ctx, database.AccountsCollection, database.Where(accountEmail, email))
	if err != nil {
		return "", fmt.Errorf("RegisterAccount: failed to check email: %w", err)
	}
	if len(existing) > 0 {
		return "", fmt.Errorf("RegisterAccount: %w", ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("RegisterAccount: failed to hash password: %w", err)
	}
	id := uuid.NewString()
	err = p.store.Set(ctx, database.AccountsCollection, id, map[string]any{
		accountEmail:        email,
		accountPasswordHash: string(hash),
		accountCreatedAt:    database.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("RegisterAccount: failed to save account: %w", err)
	}
	return id, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	docs, err := p.store.Query(ctx, database.AccountsCollection, database.Where(accountEmail, email))
	if err != nil {
		return nil, fmt.Errorf("SignIn: failed to load account: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("SignIn: %w", ErrInvalidCredentials)
	}
	account := docs[0]
	hash, _ := account.Data[accountPasswordHash].(string)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("SignIn: %w", ErrInvalidCredentials)
	}
	displayName, _ := account.Data[accountDisplayName].(string)

	tokenID := uuid.NewString()
	token, err := utils.GenerateToken(account.ID, email, displayName, tokenID, p.ttl)
	if err != nil {
		return nil, fmt.Errorf("SignIn: failed to issue token: %w", err)
	}
	cached := utils.AuthSession{
		UserID:      account.ID,
		Email:       email,
		DisplayName: displayName,
		TokenHash:   utils.HashToken(token),
		CreatedAt:   time.Now(),
	}
	if err := p.cache.Save(ctx, tokenID, cached, p.ttl); err != nil {
		return nil, fmt.Errorf("SignIn: failed to cache session: %w", err)
	}

	p.logger.Info("user signed in", zap.String("userId", account.ID))
	p.watchers.notify(SessionEvent{UserID: account.ID, SignedIn: true})
	return &Session{
		UserID:      account.ID,
		Email:       email,
		DisplayName: displayName,
		Token:       token,
		ExpiresAt:   time.Now().Add(p.ttl),
	}, nil
}

func (p *LocalProvider) CurrentSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := utils.ParseSessionToken(token)
	if err != nil {
		return nil, fmt.Errorf("CurrentSession: %v: %w", err, ErrNoSession)
	}
	cached, err := p.cache.Get(ctx, claims.Subject, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("CurrentSession: %w", err)
	}
	if cached.TokenHash != utils.HashToken(token) {
		return nil, fmt.Errorf("CurrentSession: token mismatch: %w", ErrNoSession)
	}
	return &Session{
		UserID:      claims.Subject,
		Email:       cached.Email,
		DisplayName: cached.DisplayName,
		Token:       token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// SignOut revokes the session's token. Other tokens of the same user stay valid.
func (p *LocalProvider) SignOut(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrNoSession
	}
	claims, err := utils.ParseSessionToken(session.Token)
	if err != nil {
		return fmt.Errorf("SignOut: %v: %w", err, ErrNoSession)
	}
	if err := p.cache.Delete(ctx, claims.Subject, claims.ID); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	p.logger.Info("user signed out", zap.String("userId", claims.Subject))
	p.watchers.notify(SessionEvent{UserID: claims.Subject, SignedIn: false})
	return nil
}

func (p *LocalProvider) UpdateDisplayName(ctx context.Context, userID, name string) error {
	err := p.store.UpdateFields(ctx, database.AccountsCollection, userID, map[string]any{accountDisplayName: name})
	if err != nil {
		return fmt.Errorf("UpdateDisplayName: %w", err)
	}
	return nil
}

func (p *LocalProvider) OnSessionChange(userID string, fn func(SessionEvent)) func() {
	return p.watchers.add(userID, fn)
}
