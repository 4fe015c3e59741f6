// Package redis exposes a Redis keyspace as a source of LazyMap values: a
// resolver that reads keys on demand and a scanner that discovers which keys
// exist without reading them.
package redis

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn   *redis.Client
	prefix string
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and checks the connection with a PING. Keys are
// read under prefix followed by a colon; an empty prefix uses bare keys.
func NewClient(ctx context.Context, addr, username, password string, db int, prefix string) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &client{
		conn:   conn,
		prefix: prefix,
	}, nil
}
