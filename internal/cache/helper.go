package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON reads key and unmarshals it into dest. The second return is
// false on a miss or when no cache is configured.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and writes it under key with ttl.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, payload, ttl).Err()
}

// Aside serves dest from the cache when possible. On a miss it runs
// fetch, which must populate dest, and writes the result back with ttl.
// Cache errors degrade to a straight fetch so a broken cache never
// fails a read; the write-back is best-effort for the same reason.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if hit, err := GetJSON(ctx, key, dest); err == nil && hit {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
