package gate

import (
	"context"
	"errors"
	"testing"

	"arone/auth"
	"arone/database"
	userRepo "arone/database/repository/user"
	"arone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, users map[string]map[string]any) *Gate {
	t.Helper()
	store := database.NewMemoryStore()
	for id, fields := range users {
		require.NoError(t, store.Set(context.Background(), database.UsersCollection, id, fields))
	}
	return New(userRepo.NewStoreUserRepo(store))
}

func TestCheck(t *testing.T) {
	g := seeded(t, map[string]map[string]any{
		"vendor":   {"role": "vendor"},
		"admin":    {"role": "admin"},
		"norole":   {"email": "x@example.com"},
		"capital":  {"role": "Vendor"},
		"padded":   {"role": " vendor"},
		"traveler": {"role": "traveler"},
	})
	cases := []struct {
		name     string
		session  *auth.Session
		required models.Role
		want     Verdict
	}{
		{"no session", nil, models.RoleVendor, Verdict{Redirect: "/login"}},
		{"exact match", &auth.Session{UserID: "vendor"}, models.RoleVendor, Verdict{Allowed: true, Role: models.RoleVendor}},
		{"mismatch", &auth.Session{UserID: "traveler"}, models.RoleVendor, Verdict{Redirect: "/", Role: models.RoleTraveler}},
		{"absent role is traveler", &auth.Session{UserID: "norole"}, models.RoleTraveler, Verdict{Allowed: true, Role: models.RoleTraveler}},
		{"missing record is traveler", &auth.Session{UserID: "ghost"}, models.RoleTraveler, Verdict{Allowed: true, Role: models.RoleTraveler}},
		{"case sensitive", &auth.Session{UserID: "capital"}, models.RoleVendor, Verdict{Redirect: "/", Role: models.Role("Vendor")}},
		{"whitespace sensitive", &auth.Session{UserID: "padded"}, models.RoleVendor, Verdict{Redirect: "/", Role: models.Role(" vendor")}},
		{"admin is not vendor", &auth.Session{UserID: "admin"}, models.RoleVendor, Verdict{Redirect: "/", Role: models.RoleAdmin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.Check(context.Background(), tc.session, tc.required)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// --- Mock repository ---

type mockUserRepo struct {
	userRepo.UserRepository
	getFn func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.getFn(ctx, id)
}

func TestCheck_StoreFailure(t *testing.T) {
	g := New(&mockUserRepo{getFn: func(context.Context, string) (*models.User, error) {
		return nil, errors.New("permission denied")
	}})
	_, err := g.Check(context.Background(), &auth.Session{UserID: "u1"}, models.RoleAdmin)
	assert.ErrorContains(t, err, "permission denied")
}
