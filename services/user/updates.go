package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arone/auth"
	"arone/database"
	"arone/models"
	"arone/services/events"

	"go.uber.org/zap"
)

// Profile returns the users record with its resolved role. A signed-in user without a
// record is shown as a traveler.
func (s *DefaultUserService) Profile(ctx context.Context, session *auth.Session) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &models.User{ID: session.UserID, Email: session.Email, Role: models.ResolveRole("")}, nil
		}
		return nil, fmt.Errorf("Profile: %w", err)
	}
	if u.Email == "" {
		u.Email = session.Email
	}
	return u, nil
}

// UpdateNickname sets the identity display name and users.nickname.
func (s *DefaultUserService) UpdateNickname(ctx context.Context, session *auth.Session, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return ErrInvalidNickname
	}
	if err := s.Identity.UpdateDisplayName(ctx, session.UserID, nickname); err != nil {
		return fmt.Errorf("UpdateNickname: %w", err)
	}
	if err := s.Repo.SetNickname(ctx, session.UserID, nickname); err != nil {
		return fmt.Errorf("UpdateNickname: %w", err)
	}
	return nil
}

func (s *DefaultUserService) RegisterFCMToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidFCMToken
	}
	if err := s.Repo.SetFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("RegisterFCMToken: %w", err)
	}
	return nil
}

// ToggleUserRole flips a vendor to traveler or back and returns the new role. Admins and
// unknown roles are left alone.
func (s *DefaultUserService) ToggleUserRole(ctx context.Context, adminID, targetID string) (models.Role, error) {
	target, err := s.Repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("ToggleUserRole: %w", err)
	}
	next, ok := target.Role.Toggled()
	if !ok {
		return "", ErrRoleNotToggleable
	}
	if err := s.Repo.SetRole(ctx, targetID, next); err != nil {
		return "", fmt.Errorf("ToggleUserRole: %w", err)
	}

	s.Logger.Info("User role toggled", zap.String("adminId", adminID), zap.String("userId", targetID), zap.String("role", string(next)))
	events.Emit(ctx, s.Publisher, s.Logger, events.UserRoleChanged, adminID, targetID, map[string]any{
		"from": string(target.Role),
		"to":   string(next),
	})
	return next, nil
}

// DeleteUser removes the users record. The identity account is kept; signing in again
// resolves to a traveler.
func (s *DefaultUserService) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if err := s.Repo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	s.Logger.Info("User deleted", zap.String("adminId", adminID), zap.String("userId", targetID))
	events.Emit(ctx, s.Publisher, s.Logger, events.UserDeleted, adminID, targetID, nil)
	return nil
}
