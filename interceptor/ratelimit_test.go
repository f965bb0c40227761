//go:build !nomiddleware

package interceptor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/kbukum/httpkit/middleware"
)

func TestRateLimit_Waits(t *testing.T) {
	c := newChain(t, func(http.ResponseWriter, *http.Request) {}, RateLimit(RateLimitConfig{Rate: 20, Burst: 1}))

	start := time.Now()
	for range 3 {
		resp, err := c.Get("/").Send(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests at 20/s with burst 1 took %v", elapsed)
	}
}

func TestRateLimiter_ContextDeadline(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := newChain(t, func(http.ResponseWriter, *http.Request) {}, RateLimiter(limiter))

	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Get("/").Send(ctx)
	if !middleware.IsMiddleware(err) {
		t.Errorf("expected middleware error, got %v", err)
	}
}

func TestRateLimitConfig_Defaults(t *testing.T) {
	cfg := RateLimitConfig{}
	cfg.ApplyDefaults()
	if cfg.Rate != 10 || cfg.Burst != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
	cfg = RateLimitConfig{Rate: 0.5}
	cfg.ApplyDefaults()
	if cfg.Burst != 1 {
		t.Errorf("burst = %d, want 1", cfg.Burst)
	}
}
