package main

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/settleledger/internal/adapter/http/middleware"
	"github.com/iho/settleledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 6 * time.Second,
		HTTPIdleTimeout:  7 * time.Second,
	}
	h := http.NewServeMux()

	server := newHTTPServer(cfg, h)

	if server.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", server.Addr)
	}
	if server.ReadTimeout != 5*time.Second || server.WriteTimeout != 6*time.Second || server.IdleTimeout != 7*time.Second {
		t.Fatalf("unexpected timeouts: read=%s write=%s idle=%s", server.ReadTimeout, server.WriteTimeout, server.IdleTimeout)
	}
	if server.Handler != h {
		t.Fatalf("expected handler to be wired")
	}
}

func TestLoggerConfig(t *testing.T) {
	got := loggerConfig(&config.Config{LogLevel: "debug", LogFormat: "console"})

	if got.Level != "debug" || got.Format != "console" || got.Service != serviceName {
		t.Fatalf("unexpected logger config: %+v", got)
	}
}

func TestRunRequiresSecretWhenAuthEnabled(t *testing.T) {
	err := run(context.Background(), &config.Config{AuthEnabled: true}, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestCleanupLimitersStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		cleanupLimiters(ctx, middleware.NewRateLimiter(1, 1, nil), zerolog.Nop())
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("cleanup loop did not stop after cancel")
	}
}
