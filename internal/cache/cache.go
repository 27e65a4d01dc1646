// Package cache keeps computed group balances and the latest FX snapshot in Redis.
//
// Balance entries are keyed by group ID and revision. A write to a group bumps
// its revision, so stale entries are never read again and simply expire.
//
// A nil *Cache is valid and behaves as an always-missing cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/wesplit/internal/models"
)

const (
	keyPrefix  = "wesplit:"
	fxRatesKey = keyPrefix + "fx:latest"
)

// Cache is a Redis-backed cache for derived data.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps a Redis client. Entries expire after ttl.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func balanceKey(groupID string, revision int64) string {
	return keyPrefix + "balance:" + groupID + ":" + strconv.FormatInt(revision, 10)
}

// Balance returns the cached balance of a group at the given revision.
func (c *Cache) Balance(ctx context.Context, groupID string, revision int64) (*models.Balance, bool, error) {
	var b models.Balance
	ok, err := c.get(ctx, balanceKey(groupID, revision), &b)
	if !ok || err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

// SetBalance stores the balance of a group at the given revision.
func (c *Cache) SetBalance(ctx context.Context, groupID string, revision int64, b models.Balance) error {
	return c.set(ctx, balanceKey(groupID, revision), b)
}

// FxRates returns the cached FX snapshot.
func (c *Cache) FxRates(ctx context.Context) (*models.FxRates, bool, error) {
	var r models.FxRates
	ok, err := c.get(ctx, fxRatesKey, &r)
	if !ok || err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

// SetFxRates replaces the cached FX snapshot.
func (c *Cache) SetFxRates(ctx context.Context, r models.FxRates) error {
	return c.set(ctx, fxRatesKey, r)
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) get(ctx context.Context, key string, v any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
