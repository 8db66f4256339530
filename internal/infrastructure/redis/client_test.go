package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientAppliesPoolSettings(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), ClientConfig{
		URL:         "redis://" + s.Addr() + "/2",
		PoolSize:    7,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	opts := client.Options()
	if opts.PoolSize != 7 || opts.DialTimeout != 2*time.Second || opts.DB != 2 {
		t.Fatalf("unexpected options: pool=%d dial=%s db=%d", opts.PoolSize, opts.DialTimeout, opts.DB)
	}
}

func TestNewClientKeepsDriverDefaults(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), ClientConfig{URL: "redis://" + s.Addr()})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if client.Options().PoolSize <= 0 {
		t.Fatalf("expected driver default pool size, got %d", client.Options().PoolSize)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{URL: "://bad-url"})
	if err == nil || !strings.Contains(err.Error(), "parse redis URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewClient(context.Background(), ClientConfig{URL: "redis://" + addr, DialTimeout: time.Second})
	if err == nil || !strings.Contains(err.Error(), addr) {
		t.Fatalf("expected ping error naming %s, got %v", addr, err)
	}
}
