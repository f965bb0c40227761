//go:build !nomiddleware

package interceptor

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

// RateLimitConfig configures a token bucket limiter.
type RateLimitConfig struct {
	// Rate is the number of requests allowed per second. Defaults to 10.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the maximum burst size. Defaults to Rate rounded down, at least 1.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills in zero-value fields.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.Rate <= 0 {
		c.Rate = 10
	}
	if c.Burst <= 0 {
		c.Burst = max(int(c.Rate), 1)
	}
}

// RateLimit waits for a token before each request. The wait honours the
// request context; a cancelled wait aborts the request.
func RateLimit(cfg RateLimitConfig) middleware.Middleware {
	cfg.ApplyDefaults()
	return RateLimiter(rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst))
}

// RateLimiter is RateLimit with a caller-owned limiter, e.g. one shared by
// several clients.
func RateLimiter(limiter *rate.Limiter) middleware.Middleware {
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("interceptor: rate limit: %w", err)
		}
		return next.Run(req, ext)
	})
}
