package userRepo

import (
	"context"

	"arone/models"
)

// UserRepository defines methods for users/{id} access.
type UserRepository interface {
	// GetByID retrieves a user by id. A missing record wraps database.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetAll retrieves every user.
	GetAll(ctx context.Context) ([]models.User, error)
	// Create writes users/{id} with the registration fields.
	Create(ctx context.Context, user *models.User) error
	// SetRole overwrites the stored role.
	SetRole(ctx context.Context, id string, role models.Role) error
	// SetNickname stores the display name.
	SetNickname(ctx context.Context, id, nickname string) error
	// SetFCMToken stores the device token used for push notifications.
	SetFCMToken(ctx context.Context, id, token string) error
	// Delete removes a user record by id.
	Delete(ctx context.Context, id string) error
}
