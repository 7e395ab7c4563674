// Package sessions tracks revoked access tokens so logout takes effect
// before a token expires.
package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bizlink:revoked:"

var (
	mu     sync.RWMutex
	client *redis.Client
)

// SetBlacklistClient configures the Redis client used for revocation.
// Passing nil disables revocation checks.
func SetBlacklistClient(c *redis.Client) {
	mu.Lock()
	client = c
	mu.Unlock()
}

func current() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Key is the Redis key for a token. Only a digest of the token is stored.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// BlacklistAccessToken revokes token for ttl. Without a client it is a no-op.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	c := current()
	if c == nil || ttl <= 0 {
		return nil
	}
	return c.Set(ctx, Key(token), time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

// IsAccessTokenBlacklisted reports whether token was revoked. Without a
// client it returns (false, nil).
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	c := current()
	if c == nil {
		return false, nil
	}
	n, err := c.Exists(ctx, Key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
