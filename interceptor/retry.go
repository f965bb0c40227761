//go:build !nomiddleware

package interceptor

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/middleware"
)

// RetryConfig configures the retry middleware.
type RetryConfig struct {
	// MaxAttempts is the number of attempts including the first. Defaults to 3.
	MaxAttempts uint `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialInterval is the first backoff delay. Defaults to 100ms.
	InitialInterval time.Duration `yaml:"initial_interval" mapstructure:"initial_interval"`
	// MaxInterval caps a single backoff delay. Defaults to 10s.
	MaxInterval time.Duration `yaml:"max_interval" mapstructure:"max_interval"`
	// Multiplier grows the delay between attempts. Defaults to 2.
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
	// Jitter randomises each delay by this fraction (0 to 1).
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`
	// MaxElapsedTime stops retrying once this much time has passed. Zero means
	// attempts are bounded only by MaxAttempts and the request context.
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time" mapstructure:"max_elapsed_time"`
	// RetryIf decides whether an outcome is retried. Defaults to DefaultRetryIf.
	RetryIf func(resp *http.Response, err error) bool `yaml:"-" mapstructure:"-"`
	// OnRetry is called before sleeping ahead of the next attempt.
	OnRetry func(attempt int, err error, wait time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2,
		Jitter:          0.1,
		RetryIf:         DefaultRetryIf,
	}
}

// ApplyDefaults fills in zero-value fields.
func (c *RetryConfig) ApplyDefaults() {
	d := DefaultRetryConfig()
	if c.MaxAttempts == 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = d.InitialInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = d.MaxInterval
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		c.Jitter = d.Jitter
	}
	if c.RetryIf == nil {
		c.RetryIf = d.RetryIf
	}
}

// DefaultRetryIf retries retryable transport errors (connect, timeout) and
// 429 or 5xx responses.
func DefaultRetryIf(resp *http.Response, err error) bool {
	if err != nil {
		return httpclient.IsRetryable(err)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

// ErrRetryBudgetExhausted is returned when MaxElapsedTime ends the retries
// while the last attempt produced a retryable status.
var ErrRetryBudgetExhausted = errors.New("interceptor: retry time budget exhausted")

// retryStatusError stands in for a retryable response between attempts.
// It unwraps to the Retry-After hint, if any, so backoff honours it.
type retryStatusError struct {
	status     int
	retryAfter error
}

func (e *retryStatusError) Error() string {
	return "interceptor: retryable status " + strconv.Itoa(e.status)
}

func (e *retryStatusError) Unwrap() error {
	return e.retryAfter
}

// Retry re-sends failed requests with exponential backoff. Each attempt
// gets a fresh copy of the body; a request whose body cannot be replayed is
// sent once. The last attempt's response or error is returned as is. A
// Retry-After header in seconds overrides the backoff delay.
func Retry(cfg RetryConfig) middleware.Middleware {
	cfg.ApplyDefaults()
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			return next.Run(req, ext)
		}

		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = cfg.InitialInterval
		policy.MaxInterval = cfg.MaxInterval
		policy.Multiplier = cfg.Multiplier
		policy.RandomizationFactor = cfg.Jitter

		attempt := 0
		operation := func() (*http.Response, error) {
			attempt++
			r := req
			if attempt > 1 {
				var err error
				if r, err = rewind(req); err != nil {
					return nil, backoff.Permanent(err)
				}
			}

			resp, err := next.Run(r, ext)
			if !cfg.RetryIf(resp, err) {
				if err != nil {
					return nil, backoff.Permanent(err)
				}
				return resp, nil
			}
			if attempt >= int(cfg.MaxAttempts) {
				return resp, err
			}
			if err != nil {
				return nil, err
			}
			statusErr := &retryStatusError{status: resp.StatusCode}
			if wait := retryAfter(resp); wait > 0 {
				statusErr.retryAfter = backoff.RetryAfter(wait)
			}
			drain(resp.Body)
			return nil, statusErr
		}

		resp, err := backoff.Retry(req.Context(), operation,
			backoff.WithBackOff(policy),
			backoff.WithMaxTries(cfg.MaxAttempts),
			backoff.WithMaxElapsedTime(cfg.MaxElapsedTime),
			backoff.WithNotify(func(err error, wait time.Duration) {
				if cfg.OnRetry != nil {
					cfg.OnRetry(attempt, err, wait)
				}
			}),
		)
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		var statusErr *retryStatusError
		if errors.As(err, &statusErr) {
			err = fmt.Errorf("%w: last status %d", ErrRetryBudgetExhausted, statusErr.status)
		}
		return resp, err
	})
}

// rewind copies req with a fresh body.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("interceptor: rewind body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}

// retryAfter returns the Retry-After delay in whole seconds, or 0.
func retryAfter(resp *http.Response) int {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return secs
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
