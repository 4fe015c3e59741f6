package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/gabapcia/lazydict/internal/pkg/types"
	"github.com/gabapcia/lazydict/internal/resolver"
)

// scanBatchSize is the COUNT hint sent with every SCAN call.
const scanBatchSize = 100

// storageKey returns the Redis key holding the value of key.
//
// Format: "{prefix}:{key}"
func (c *client) storageKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

// Resolver returns a resolver that GETs the value of a key. A missing key is
// reported as resolver.ErrValueNotFound.
func (c *client) Resolver(ctx context.Context) types.Resolver[string, string] {
	return func(key string, _ ...any) (string, error) {
		val, err := c.conn.Get(ctx, c.storageKey(key)).Result()
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %s", resolver.ErrValueNotFound, key)
		}

		return val, err
	}
}

// ScanKeys lists every key under the prefix using SCAN, with the prefix
// stripped. It never reads values.
func (c *client) ScanKeys(ctx context.Context) ([]string, error) {
	match := "*"
	trim := ""
	if c.prefix != "" {
		trim = c.prefix + ":"
		match = trim + "*"
	}

	var keys []string
	iter := c.conn.Scan(ctx, 0, match, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), trim))
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

// Set stores value under key. It is used to prepare a keyspace for lookups.
func (c *client) Set(ctx context.Context, key, value string) error {
	return c.conn.Set(ctx, c.storageKey(key), value, 0).Err()
}
