package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
)

const accountCachePrefix = "account"

// JSONCache stores values as JSON strings under prefix:id with a fixed TTL.
type JSONCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	keyOf  func(T) string
}

// NewJSONCache constructs a cache; keyOf extracts the id a value is stored under.
func NewJSONCache[T any](client *redis.Client, prefix string, ttl time.Duration, keyOf func(T) string) *JSONCache[T] {
	return &JSONCache[T]{client: client, prefix: prefix, ttl: ttl, keyOf: keyOf}
}

// NewAccountCache returns the account read-model cache.
func NewAccountCache(client *redis.Client, ttl time.Duration) *JSONCache[*domain.Account] {
	return NewJSONCache(client, accountCachePrefix, ttl, func(account *domain.Account) string {
		return account.ID.String()
	})
}

// Save overwrites the entry for value and resets its TTL.
func (c *JSONCache[T]) Save(ctx context.Context, value T) error {
	id := c.keyOf(value)
	if id == "" {
		return errors.New("cache key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s cache entry: %w", c.prefix, err)
	}

	if err := c.client.Set(ctx, c.key(id), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the cached value; a missing or expired entry yields ok=false.
func (c *JSONCache[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T

	payload, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get: %w", err)
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return zero, false, fmt.Errorf("unmarshal %s cache entry: %w", c.prefix, err)
	}
	return value, true, nil
}

// Delete evicts an entry. Evicting a missing entry is not an error.
func (c *JSONCache[T]) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *JSONCache[T]) key(id string) string {
	return fmt.Sprintf("%s:%s", c.prefix, id)
}

var _ port.CacheGateway[*domain.Account] = (*JSONCache[*domain.Account])(nil)
