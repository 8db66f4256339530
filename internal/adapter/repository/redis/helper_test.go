package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	redisinfra "github.com/iho/settleledger/internal/infrastructure/redis"
)

// newTestRedisClient connects through the production constructor to an
// in-memory server that stops with the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisinfra.NewClient(context.Background(), redisinfra.ClientConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}

	return client, mr
}
