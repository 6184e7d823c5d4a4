package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResendCooldown is the minimum gap between OTP sends for one email+purpose.
const ResendCooldown = 60 * time.Second

// CooldownStore throttles OTP resends with a per-key Redis TTL entry.
// A nil *CooldownStore is valid and never throttles, so the feature degrades
// cleanly when no Redis is configured.
type CooldownStore struct {
	rdb *redis.Client
}

// New connects to the Redis URL (redis://...). An empty URL returns a nil
// store, which disables the cooldown.
func New(url string) (*CooldownStore, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &CooldownStore{rdb: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing client; used in tests.
func NewWithClient(rdb *redis.Client) *CooldownStore {
	return &CooldownStore{rdb: rdb}
}

// Allow reports whether a send is permitted now, and if so starts the
// cooldown window. SET NX makes check-and-start atomic across instances.
func (c *CooldownStore) Allow(ctx context.Context, email, purpose string) (bool, error) {
	if c == nil {
		return true, nil
	}
	key := fmt.Sprintf("otp-cooldown:%s:%s", purpose, email)
	ok, err := c.rdb.SetNX(ctx, key, 1, ResendCooldown).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown check: %w", err)
	}
	return ok, nil
}

// Close releases the underlying connection.
func (c *CooldownStore) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
