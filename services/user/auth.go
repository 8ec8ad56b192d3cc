package user

import (
	"context"
	"fmt"
	"strings"

	"arone/auth"
	"arone/models"
	"arone/services/events"
	"arone/utils"

	"go.uber.org/zap"
)

// LandingRoute is where a role lands after signing in.
func LandingRoute(role models.Role) string {
	switch role {
	case models.RoleVendor:
		return utils.RouteVendorHub
	case models.RoleAdmin:
		return utils.RouteAdminPanel
	case models.RoleTraveler:
		return utils.RouteTravelHub
	default:
		return utils.RouteHome
	}
}

// Register creates the identity account and the users record, then signs the new user in.
// Only traveler and vendor can be self-selected; an empty role registers a traveler.
func (s *DefaultUserService) Register(ctx context.Context, reg models.UserRegistration) (*AuthResponse, error) {
	role := models.ResolveRole(string(reg.Role))
	if !role.Registrable() {
		return nil, ErrRoleNotAllowed
	}
	email := strings.TrimSpace(reg.Email)

	id, err := s.Identity.RegisterAccount(ctx, email, reg.Password)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}
	if err := s.Repo.Create(ctx, &models.User{ID: id, Email: email, Role: role}); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}
	s.Logger.Info("User registered", zap.String("userId", id), zap.String("role", string(role)))
	events.Emit(ctx, s.Publisher, s.Logger, events.UserRegistered, id, id, map[string]any{"role": string(role)})

	return s.SignIn(ctx, models.Credentials{Email: email, Password: reg.Password})
}

// SignIn opens a session and reports the resolved role with its landing route.
func (s *DefaultUserService) SignIn(ctx context.Context, creds models.Credentials) (*AuthResponse, error) {
	session, err := s.Identity.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("SignIn: %w", err)
	}
	role, err := s.Gate.Role(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("SignIn: %w", err)
	}
	return &AuthResponse{
		ID:          session.UserID,
		Token:       session.Token,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Role:        role,
		Redirect:    LandingRoute(role),
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

func (s *DefaultUserService) SignOut(ctx context.Context, session *auth.Session) error {
	if err := s.Identity.SignOut(ctx, session); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	return nil
}
