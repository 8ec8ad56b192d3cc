// Package gate decides whether a session may open a role-protected view.
package gate

import (
	"context"
	"errors"
	"fmt"

	"arone/auth"
	"arone/database"
	userRepo "arone/database/repository/user"
	"arone/models"
	"arone/utils"
)

// Verdict is the outcome of a role check. Redirect is set when access is denied.
type Verdict struct {
	Allowed  bool        `json:"allowed"`
	Redirect string      `json:"redirect,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// Gate resolves roles from users/{id}.
type Gate struct {
	users userRepo.UserRepository
}

func New(users userRepo.UserRepository) *Gate {
	return &Gate{users: users}
}

// Role returns the resolved role of a user. A missing users record is a traveler.
func (g *Gate) Role(ctx context.Context, userID string) (models.Role, error) {
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.ResolveRole(""), nil
		}
		return "", fmt.Errorf("Role: %w", err)
	}
	return user.Role, nil
}

// Check grants access iff the resolved role equals required exactly. No session redirects
// to sign-in; any mismatch redirects home.
func (g *Gate) Check(ctx context.Context, session *auth.Session, required models.Role) (Verdict, error) {
	if session == nil || session.UserID == "" {
		return Verdict{Redirect: utils.RouteLogin}, nil
	}
	role, err := g.Role(ctx, session.UserID)
	if err != nil {
		return Verdict{}, err
	}
	if role != required {
		return Verdict{Redirect: utils.RouteHome, Role: role}, nil
	}
	return Verdict{Allowed: true, Role: role}, nil
}
