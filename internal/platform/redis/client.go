// Package redis owns the shared Redis connection and its key namespace.
package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"gatehouse/internal/platform/config"
)

const defaultPrefix = "gatehouse"

// Client is a pinged go-redis client scoped to one key namespace so several
// deployments can share a Redis instance.
type Client struct {
	*redis.Client
	prefix string
}

// New dials Redis and verifies the connection. A nil client and nil error mean
// Redis is not configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return Wrap(rdb, cfg.KeyPrefix), nil
}

// Wrap scopes an existing go-redis client to prefix.
func Wrap(rdb *redis.Client, prefix string) *Client {
	prefix = strings.Trim(prefix, ": ")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Client{Client: rdb, prefix: prefix}
}

// Namespace is the key prefix without a trailing separator.
func (c *Client) Namespace() string { return c.prefix }

// Key joins parts under the client's namespace: Key("trays", "available")
// yields "gatehouse:trays:available".
func (c *Client) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
