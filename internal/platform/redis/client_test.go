package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		prefix    string
		namespace string
		key       string
	}{
		{prefix: "", namespace: "gatehouse", key: "gatehouse:trays:available"},
		{prefix: "tower-b:", namespace: "tower-b", key: "tower-b:trays:available"},
		{prefix: " staging ", namespace: "staging", key: "staging:trays:available"},
	}
	for _, tt := range tests {
		c := Wrap(rdb, tt.prefix)
		assert.Equal(t, tt.namespace, c.Namespace())
		assert.Equal(t, tt.key, c.Key("trays", "available"))
	}
}
