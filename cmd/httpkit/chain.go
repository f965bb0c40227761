//go:build !nomiddleware

package main

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/httpkit/compat"
	"github.com/kbukum/httpkit/config"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/interceptor"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/middleware"
	"github.com/kbukum/httpkit/observability"
)

const instrumentationName = "github.com/kbukum/httpkit"

// newMiddlewareClient assembles the chain, outermost first: request ID,
// headers, auth, tracing, logging, metrics, retry, circuit breaker, rate
// limit. Disabled entries are nil and dropped by the builder.
func newMiddlewareClient(inner *httpclient.Client, cfg config.MiddlewareConfig, log *logger.Logger) (*compat.Client, error) {
	auth, err := authMiddleware(cfg.Auth)
	if err != nil {
		return nil, err
	}
	metrics, err := metricsMiddleware(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	var requestID, headers, tracing, logging, retry, breaker, limit middleware.Middleware
	if cfg.RequestID {
		requestID = interceptor.RequestID(cfg.RequestIDHeader)
	}
	if len(cfg.Headers) > 0 {
		h := make(http.Header, len(cfg.Headers))
		for k, v := range cfg.Headers {
			h.Set(k, v)
		}
		headers = interceptor.Headers(h)
	}
	if cfg.Tracing {
		tracing = interceptor.Tracing(nil, nil)
	}
	if cfg.Logging {
		logging = interceptor.Logging(log)
	}
	if cfg.Retry.Enabled {
		retry = interceptor.Retry(retryConfig(cfg.Retry, log))
	}
	if cfg.CircuitBreaker.Enabled {
		breaker = interceptor.NewCircuitBreaker(interceptor.CircuitBreakerConfig{
			Name:        "httpkit",
			MaxFailures: cfg.CircuitBreaker.MaxFailures,
			Timeout:     cfg.CircuitBreaker.Timeout,
			OnStateChange: func(name string, from, to interceptor.State) {
				log.Warn("circuit breaker state changed", logger.Fields("breaker", name, "from", from.String(), "to", to.String()))
			},
		})
	}
	if cfg.RateLimit.Enabled {
		limit = interceptor.RateLimit(interceptor.RateLimitConfig{Rate: cfg.RateLimit.Rate, Burst: cfg.RateLimit.Burst})
	}

	c := middleware.NewClientBuilder(inner).
		With(requestID, headers, auth, tracing, logging, metrics, retry, breaker, limit).
		WithLogger(log).
		Build()
	return compat.FromMiddleware(c), nil
}

func authMiddleware(cfg config.AuthConfig) (middleware.Middleware, error) {
	var ac *interceptor.AuthConfig
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "bearer":
		ac = interceptor.BearerAuth(cfg.Token)
	case "basic":
		ac = interceptor.BasicAuth(cfg.Username, cfg.Password)
	case "api_key":
		name := cfg.Name
		if name == "" {
			name = "X-API-Key"
		}
		if cfg.In == "query" {
			ac = interceptor.APIKeyAuthQuery(cfg.Key, name)
		} else {
			ac = interceptor.APIKeyAuthHeader(cfg.Key, name)
		}
	case "jwt":
		src, err := interceptor.NewJWTTokenSource(interceptor.JWTConfig{
			Secret:   cfg.JWT.Secret,
			Method:   cfg.JWT.Method,
			Issuer:   cfg.JWT.Issuer,
			Subject:  cfg.JWT.Subject,
			Audience: cfg.JWT.Audience,
			TTL:      cfg.JWT.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("jwt auth: %w", err)
		}
		ac = interceptor.TokenAuth(src)
	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
	return interceptor.Auth(ac), nil
}

func metricsMiddleware(enabled bool) (middleware.Middleware, error) {
	if !enabled {
		return nil, nil
	}
	m, err := observability.NewClientMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("client metrics: %w", err)
	}
	return interceptor.Metrics(m), nil
}

func retryConfig(cfg config.RetryConfig, log *logger.Logger) interceptor.RetryConfig {
	rc := interceptor.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.InitialInterval > 0 {
		rc.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		rc.MaxInterval = cfg.MaxInterval
	}
	rc.MaxElapsedTime = cfg.MaxElapsedTime
	rc.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Warn("retrying request", logger.Fields(logger.FieldAttempt, attempt, logger.FieldError, err.Error(), "wait_ms", wait.Milliseconds()))
	}
	return rc
}
