package user

import (
	"context"
	"errors"
	"time"

	"arone/auth"
	userRepo "arone/database/repository/user"
	"arone/models"
	"arone/services/events"
	"arone/services/gate"

	"go.uber.org/zap"
)

var (
	ErrRoleNotAllowed    = errors.New("role must be traveler or vendor")
	ErrRoleNotToggleable = errors.New("only vendor and traveler roles can be toggled")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidNickname   = errors.New("nickname must not be empty")
	ErrInvalidFCMToken   = errors.New("fcm token must not be empty")
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, reg models.UserRegistration) (*AuthResponse, error)
	SignIn(ctx context.Context, creds models.Credentials) (*AuthResponse, error)
	SignOut(ctx context.Context, session *auth.Session) error

	// Profile
	Profile(ctx context.Context, session *auth.Session) (*models.User, error)
	UpdateNickname(ctx context.Context, session *auth.Session, nickname string) error
	RegisterFCMToken(ctx context.Context, userID, token string) error

	// Admin
	ToggleUserRole(ctx context.Context, adminID, targetID string) (models.Role, error)
	DeleteUser(ctx context.Context, adminID, targetID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	Identity  auth.IdentityProvider
	Gate      *gate.Gate
	Publisher events.Publisher
	Logger    *zap.Logger
}

func NewUserService(repo userRepo.UserRepository, identity auth.IdentityProvider, publisher events.Publisher, logger *zap.Logger) *DefaultUserService {
	return &DefaultUserService{
		Repo:      repo,
		Identity:  identity,
		Gate:      gate.New(repo),
		Publisher: publisher,
		Logger:    logger,
	}
}

// AuthResponse is returned by sign-in and registration.
type AuthResponse struct {
	ID          string      `json:"id"`
	Token       string      `json:"token"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName,omitempty"`
	Role        models.Role `json:"role"`
	Redirect    string      `json:"redirect"`
	ExpiresAt   time.Time   `json:"expiresAt,omitempty"`
}
