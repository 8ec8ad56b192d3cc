package userRepo

import (
	"context"
	"fmt"

	"arone/database"
	"arone/models"
)

// StoreUserRepo implements UserRepository on a DocumentStore.
type StoreUserRepo struct {
	store database.DocumentStore
}

// NewStoreUserRepo creates a user repository.
func NewStoreUserRepo(store database.DocumentStore) *StoreUserRepo {
	return &StoreUserRepo{store: store}
}

func (r *StoreUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.GetByID(ctx, database.UsersCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user with id %s: %w", id, err)
	}
	user := DecodeUser(*doc)
	return &user, nil
}

func (r *StoreUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	docs, err := r.store.Query(ctx, database.UsersCollection, database.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return DecodeUsers(docs), nil
}

// Create writes {email, role, createdAt}. The id comes from the identity provider.
func (r *StoreUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("failed to create user: missing id")
	}
	err := r.store.Set(ctx, database.UsersCollection, user.ID, map[string]any{
		models.FieldEmail:     user.Email,
		models.FieldRole:      string(user.Role),
		models.FieldCreatedAt: database.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

func (r *StoreUserRepo) SetRole(ctx context.Context, id string, role models.Role) error {
	return r.update(ctx, id, models.FieldRole, string(role))
}

func (r *StoreUserRepo) SetNickname(ctx context.Context, id, nickname string) error {
	return r.update(ctx, id, models.FieldNickname, nickname)
}

func (r *StoreUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.update(ctx, id, models.FieldFCMToken, token)
}

func (r *StoreUserRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.UsersCollection, id); err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	return nil
}

func (r *StoreUserRepo) update(ctx context.Context, id, field string, value any) error {
	if err := r.store.UpdateFields(ctx, database.UsersCollection, id, map[string]any{field: value}); err != nil {
		return fmt.Errorf("failed to update %s for user %s: %w", field, id, err)
	}
	return nil
}
