// File: arone/utils/auth_session.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AuthSession is the cached record of an issued session token.
type AuthSession struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	TokenHash   string    `json:"tokenHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthSessionKey is the cache key of one token: auth:<userId>:<tokenId>.
func AuthSessionKey(userID, tokenID string) string {
	return AuthCachePrefix + userID + ":" + tokenID
}

// SaveAuthSession saves the session in Redis with a TTL.
func SaveAuthSession(ctx context.Context, client *redis.Client, key string, session AuthSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves a session from Redis. A missing key returns redis.Nil.
func GetAuthSession(ctx context.Context, client *redis.Client, key string) (*AuthSession, error) {
	data, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var session AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// DeleteAuthSession removes a session from Redis.
func DeleteAuthSession(ctx context.Context, client *redis.Client, key string) error {
	return client.Del(ctx, key).Err()
}
