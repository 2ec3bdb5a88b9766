package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config holds connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps go-redis for session revocation and request throttling
type Client struct {
	rdb    *goredis.Client
	logger zerolog.Logger
}

// NewClient connects and pings the server
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("Connected to redis")

	return &Client{rdb: rdb, logger: logger}, nil
}

const (
	blacklistPrefix = "token:blacklist:"
	rateLimitPrefix = "rate_limit:"
)

func blacklistKey(jti string) string { return blacklistPrefix + jti }

// BlacklistToken revokes token id jti for the rest of its lifetime.
// Already expired tokens (ttl <= 0) need no entry.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistKey(jti), "1", ttl).Err()
}

// IsBlacklisted reports whether jti has been revoked
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CheckRateLimit counts a hit on key inside a fixed window and reports whether it is within limit
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	key = rateLimitPrefix + key

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
