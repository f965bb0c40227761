package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
)

// DefaultName is the configuration name used to locate files when none is given.
const DefaultName = "httpkit"

// Config is the full CLI configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Client        httpclient.Config    `yaml:"client" mapstructure:"client"`
	Middleware    MiddlewareConfig     `yaml:"middleware" mapstructure:"middleware"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// MiddlewareConfig selects the middleware backend and its chain. When
// Enabled is false requests go through the plain client and every other
// field is ignored.
type MiddlewareConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// RequestID adds an X-Request-ID header (or RequestIDHeader) to every request.
	RequestID       bool   `yaml:"request_id" mapstructure:"request_id"`
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`

	// Headers are added to requests that do not already carry them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	Logging bool `yaml:"logging" mapstructure:"logging"`
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`

	Auth           AuthConfig           `yaml:"auth" mapstructure:"auth"`
	Retry          RetryConfig          `yaml:"retry" mapstructure:"retry"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit" mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// AuthConfig selects how credentials are attached.
type AuthConfig struct {
	Type     string `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=none bearer basic api_key jwt"`
	Token    string `yaml:"token" mapstructure:"token" validate:"required_if=Type bearer"`
	Username string `yaml:"username" mapstructure:"username" validate:"required_if=Type basic"`
	Password string `yaml:"password" mapstructure:"password"`
	Key      string `yaml:"key" mapstructure:"key" validate:"required_if=Type api_key"`
	// In is "header" or "query" for api_key auth.
	In string `yaml:"in" mapstructure:"in" validate:"omitempty,oneof=header query"`
	// Name is the header or query parameter carrying the API key.
	Name string    `yaml:"name" mapstructure:"name"`
	JWT  JWTConfig `yaml:"jwt" mapstructure:"jwt"`
}

// JWTConfig configures self-signed HMAC tokens.
type JWTConfig struct {
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   string        `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Subject  string        `yaml:"subject" mapstructure:"subject"`
	Audience []string      `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
}

// RetryConfig enables retries of failed requests.
type RetryConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts     uint          `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval" mapstructure:"initial_interval" validate:"gte=0"`
	MaxInterval     time.Duration `yaml:"max_interval" mapstructure:"max_interval" validate:"gte=0"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time" mapstructure:"max_elapsed_time" validate:"gte=0"`
}

// RateLimitConfig enables client-side rate limiting.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	Rate    float64 `yaml:"rate" mapstructure:"rate" validate:"gte=0"`
	Burst   int     `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// CircuitBreakerConfig enables a circuit breaker in front of the transport.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields of every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Client.ApplyDefaults()

	tr, mt := &c.Observability.Tracing, &c.Observability.Metrics
	inherit(&tr.ServiceName, c.Name)
	inherit(&tr.ServiceVersion, c.Version)
	inherit(&tr.Environment, c.Environment)
	inherit(&mt.ServiceName, c.Name)
	inherit(&mt.ServiceVersion, c.Version)
	inherit(&mt.Environment, c.Environment)

	if c.Middleware.Auth.Type == "" {
		c.Middleware.Auth.Type = "none"
	}
}

// Validate checks struct tags first, then the rules tags cannot express.
func (c *Config) Validate() error {
	if err := Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.Middleware.validate()
}

func inherit(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (m *MiddlewareConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	var errs []error
	if m.Auth.Type == "jwt" && m.Auth.JWT.Secret == "" {
		errs = append(errs, errors.New("config: middleware.auth.jwt.secret is required for jwt auth"))
	}
	if m.Retry.Enabled && m.Retry.MaxInterval > 0 && m.Retry.InitialInterval > m.Retry.MaxInterval {
		errs = append(errs, errors.New("config: middleware.retry.initial_interval must not exceed max_interval"))
	}
	return errors.Join(errs...)
}
