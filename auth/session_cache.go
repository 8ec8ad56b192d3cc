package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"arone/utils"

	"github.com/go-redis/redis/v8"
)

// SessionCache records live session tokens so they can be revoked before they expire.
type SessionCache interface {
	Save(ctx context.Context, tokenID string, session utils.AuthSession, ttl time.Duration) error
	// Get returns ErrNoSession when the token was revoked or has expired.
	Get(ctx context.Context, userID, tokenID string) (*utils.AuthSession, error)
	Delete(ctx context.Context, userID, tokenID string) error
}

// RedisSessionCache stores sessions in the auth cache Redis DB.
type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

func (c *RedisSessionCache) Save(ctx context.Context, tokenID string, session utils.AuthSession, ttl time.Duration) error {
	return utils.SaveAuthSession(ctx, c.client, utils.AuthSessionKey(session.UserID, tokenID), session, ttl)
}

func (c *RedisSessionCache) Get(ctx context.Context, userID, tokenID string) (*utils.AuthSession, error) {
	s, err := utils.GetAuthSession(ctx, c.client, utils.AuthSessionKey(userID, tokenID))
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return s, nil
}

func (c *RedisSessionCache) Delete(ctx context.Context, userID, tokenID string) error {
	return utils.DeleteAuthSession(ctx, c.client, utils.AuthSessionKey(userID, tokenID))
}

// MemorySessionCache keeps sessions in process. Used when Redis is not configured.
type MemorySessionCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	session   utils.AuthSession
	expiresAt time.Time
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemorySessionCache) Save(_ context.Context, tokenID string, session utils.AuthSession, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[utils.AuthSessionKey(session.UserID, tokenID)] = memoryEntry{session: session, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemorySessionCache) Get(_ context.Context, userID, tokenID string) (*utils.AuthSession, error) {
	key := utils.AuthSessionKey(userID, tokenID)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, ErrNoSession
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, ErrNoSession
	}
	s := e.session
	return &s, nil
}

func (c *MemorySessionCache) Delete(_ context.Context, userID, tokenID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, utils.AuthSessionKey(userID, tokenID))
	return nil
}
