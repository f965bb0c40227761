//go:build !nomiddleware

package interceptor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures a self-signed JWT token source, for services that
// authenticate to each other with short-lived HMAC tokens.
type JWTConfig struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is HS256 (default), HS384 or HS512.
	Method string `yaml:"method" mapstructure:"method"`

	// Issuer, Subject and Audience fill the registered claims.
	Issuer   string   `yaml:"issuer" mapstructure:"issuer"`
	Subject  string   `yaml:"subject" mapstructure:"subject"`
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// RefreshBefore renews a cached token this long before it expires. Defaults to 30s.
	RefreshBefore time.Duration `yaml:"refresh_before" mapstructure:"refresh_before"`
}

// ApplyDefaults fills in zero-value fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.RefreshBefore == 0 {
		c.RefreshBefore = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("interceptor/jwt: secret is required")
	}
	if c.signingMethod() == nil {
		return fmt.Errorf("interceptor/jwt: unsupported signing method %q", c.Method)
	}
	if c.RefreshBefore >= c.TTL {
		return errors.New("interceptor/jwt: refresh_before must be shorter than ttl")
	}
	return nil
}

func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case "HS256":
		return gojwt.SigningMethodHS256
	case "HS384":
		return gojwt.SigningMethodHS384
	case "HS512":
		return gojwt.SigningMethodHS512
	default:
		return nil
	}
}

// JWTTokenSource signs tokens on demand and caches them until shortly
// before expiry. It is safe for concurrent use.
type JWTTokenSource struct {
	cfg JWTConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTTokenSource validates cfg and returns a token source.
func NewJWTTokenSource(cfg JWTConfig) (*JWTTokenSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &JWTTokenSource{cfg: cfg, now: time.Now}, nil
}

// Token returns the cached token or signs a new one.
func (s *JWTTokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.RefreshBefore).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.cfg.TTL)
	claims := gojwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   s.cfg.Subject,
		Audience:  s.cfg.Audience,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(expires),
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("interceptor/jwt: sign token: %w", err)
	}
	s.token, s.expires = signed, expires
	return signed, nil
}
