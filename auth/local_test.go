package auth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"arone/database"
	"arone/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocal(t *testing.T) *LocalProvider {
	t.Helper()
	return NewLocalProvider(database.NewMemoryStore(), NewMemorySessionCache(), time.Hour, zap.NewNop())
}

func TestLocal_RegisterSignInAndResolve(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t)

	id, err := p.RegisterAccount(ctx, "Traveler@Example.com ", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = p.RegisterAccount(ctx, "traveler@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	session, err := p.SignIn(ctx, "traveler@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.NotEmpty(t, session.Token)

	current, err := p.CurrentSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, id, current.UserID)
	assert.Equal(t, "traveler@example.com", current.Email)
}

func TestLocal_BadCredentials(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t)
	_, err := p.RegisterAccount(ctx, "v@example.com", "right")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "v@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.CurrentSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = p.CurrentSession(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLocal_SignOutRevokesAndNotifies(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t)
	id, err := p.RegisterAccount(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	var events []SessionEvent
	unsubscribe := p.OnSessionChange(id, func(ev SessionEvent) { events = append(events, ev) })

	session, err := p.SignIn(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, session))

	_, err = p.CurrentSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	require.Len(t, events, 2)
	assert.True(t, events[0].SignedIn)
	assert.False(t, events[1].SignedIn)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, p.watchers.count(id))
}

func TestLocal_OtherUsersEventsAreNotDelivered(t *testing.T) {
	ctx := context.Background()
	p := newLocal(t)
	_, err := p.RegisterAccount(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	var calls atomic.Int32
	defer p.OnSessionChange("someone-else", func(SessionEvent) { calls.Add(1) })()

	_, err = p.SignIn(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestMemorySessionCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Save(ctx, "t1", sessionFor("u1"), time.Minute))
	_, err := c.Get(ctx, "u1", "t1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "u1", "t1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func sessionFor(userID string) utils.AuthSession {
	return utils.AuthSession{UserID: userID, Email: userID + "@example.com"}
}
