package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "payment_method:pm-1", []byte(`{"id":"pm-1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "payment_method:pm-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"id":"pm-1"}` {
		t.Fatalf("unexpected cached value %s", val)
	}

	if !mr.Exists("settleledger:cache:payment_method:pm-1") {
		t.Fatalf("expected key to be stored under the cache prefix")
	}
}

func TestCacheMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	val, err := NewCache(client).Get(context.Background(), "absent")
	if err != nil || val != nil {
		t.Fatalf("expected silent miss, got val=%v err=%v", val, err)
	}
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if val, _ := cache.Get(ctx, "k"); val != nil {
		t.Fatalf("expected expired key, got %s", val)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if val, err := cache.Get(ctx, "foo"); err != nil || val != nil {
		t.Fatalf("expected deleted key to miss, got val=%v err=%v", val, err)
	}
}

func TestCacheServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	if _, err := NewCache(client).Get(context.Background(), "foo"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
