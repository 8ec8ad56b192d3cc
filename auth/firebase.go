package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider verifies Firebase ID tokens with the Admin SDK and signs users in with
// the Identity Toolkit password endpoint.
type FirebaseProvider struct {
	client   *fbauth.Client
	toolkit  *identitytoolkit.Service
	logger   *zap.Logger
	watchers *watchers
}

// NewFirebaseProvider builds the provider from an initialized app. apiKey is the web API
// key of the project, required for password sign-in.
func NewFirebaseProvider(ctx context.Context, app *firebase.App, apiKey string, logger *zap.Logger) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	if apiKey == "" {
		return nil, errors.New("firebase: FIREBASE_API_KEY is required for password sign-in")
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("firebase: error creating identity toolkit client: %w", err)
	}
	return &FirebaseProvider{client: client, toolkit: toolkit, logger: logger, watchers: newWatchers()}, nil
}

func (p *FirebaseProvider) CurrentSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	tok, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("CurrentSession: %v: %w", err, ErrNoSession)
	}
	s := &Session{UserID: tok.UID, Token: token, ExpiresAt: time.Unix(tok.Expires, 0)}
	s.Email, _ = tok.Claims["email"].(string)
	s.DisplayName, _ = tok.Claims["name"].(string)
	return s, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 400 {
			return nil, fmt.Errorf("SignIn: %s: %w", apiErr.Message, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("SignIn: %w", err)
	}

	p.watchers.notify(SessionEvent{UserID: resp.LocalId, SignedIn: true})
	return &Session{
		UserID:      resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Token:       resp.IdToken,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

func (p *FirebaseProvider) RegisterAccount(ctx context.Context, email, password string) (string, error) {
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("RegisterAccount: %w", ErrEmailTaken)
		}
		return "", fmt.Errorf("RegisterAccount: %w", err)
	}
	return rec.UID, nil
}

// SignOut revokes every refresh token of the user, which invalidates all their ID tokens
// on the next revocation check.
func (p *FirebaseProvider) SignOut(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrNoSession
	}
	if err := p.client.RevokeRefreshTokens(ctx, session.UserID); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	p.logger.Info("user signed out", zap.String("userId", session.UserID))
	p.watchers.notify(SessionEvent{UserID: session.UserID, SignedIn: false})
	return nil
}

func (p *FirebaseProvider) UpdateDisplayName(ctx context.Context, userID, name string) error {
	if _, err := p.client.UpdateUser(ctx, userID, (&fbauth.UserToUpdate{}).DisplayName(name)); err != nil {
		return fmt.Errorf("UpdateDisplayName: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) OnSessionChange(userID string, fn func(SessionEvent)) func() {
	return p.watchers.add(userID, fn)
}
