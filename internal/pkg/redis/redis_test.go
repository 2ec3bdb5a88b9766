package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a closed port so any network call fails fast
func unreachableClient() *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
		logger: zerolog.Nop(),
	}
}

func TestBlacklistKey(t *testing.T) {
	assert.Equal(t, "token:blacklist:abc", blacklistKey("abc"))
}

func TestBlacklistToken_ExpiredIsNoop(t *testing.T) {
	c := unreachableClient()
	defer c.Close()

	assert.NoError(t, c.BlacklistToken(context.Background(), "jti", 0))
	assert.NoError(t, c.BlacklistToken(context.Background(), "jti", -time.Second))
}

func TestClient_ErrorsWhenUnreachable(t *testing.T) {
	c := unreachableClient()
	defer c.Close()
	ctx := context.Background()

	assert.Error(t, c.BlacklistToken(ctx, "jti", time.Minute))

	_, err := c.IsBlacklisted(ctx, "jti")
	assert.Error(t, err)

	_, err = c.CheckRateLimit(ctx, "1.2.3.4:/api/v1/auth/signin", 5, time.Minute)
	assert.Error(t, err)
}

func TestCheckRateLimit_Disabled(t *testing.T) {
	c := unreachableClient()
	defer c.Close()

	ok, err := c.CheckRateLimit(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewClient_PingFailure(t *testing.T) {
	_, err := NewClient(Config{Addr: "127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}
