package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client is an optional cache in front of the store's feed projections,
// plus a SetNX-based idempotency guard for daily rewards. Every method
// is nil-safe: reads behave as cache misses so the core runs unchanged
// without Redis, while the reward claim fails closed because it mints
// tokens.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// CacheFeed stores a JSON-encoded feed projection under the given key
// with a TTL matching the poll interval.
func (c *Client) CacheFeed(ctx context.Context, key string, payload interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode feed payload: %w", err)
	}
	return c.rdb.Set(ctx, fmt.Sprintf("feed:%s", key), data, ttl).Err()
}

// GetFeed loads a cached feed projection into out. Returns false on a
// miss (including when the client is nil).
func (c *Client) GetFeed(ctx context.Context, key string, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.rdb.Get(ctx, fmt.Sprintf("feed:%s", key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode cached feed: %w", err)
	}
	return true, nil
}

// ClaimDailyReward marks the user's reward for the given UTC day as
// issued. Returns true exactly once per user per day. With no Redis
// configured the claim fails closed: the once-per-day contract cannot
// be enforced, so no token-creating reward is issued at all.
func (c *Client) ClaimDailyReward(ctx context.Context, userID string, day time.Time) (bool, error) {
	if c == nil {
		return false, nil
	}

	key := fmt.Sprintf("reward:%s:%s", userID, day.UTC().Format("2006-01-02"))
	return c.rdb.SetNX(ctx, key, "1", 48*time.Hour).Result()
}
