//go:build !nomiddleware

package interceptor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends a static bearer token.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey sends an API key in a header or query parameter.
	AuthAPIKey
	// AuthCustom calls a user function.
	AuthCustom
	// AuthTokenSource fetches a bearer token per request.
	AuthTokenSource
)

// TokenSource supplies bearer tokens, e.g. from a cache or an OAuth flow.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password are the basic credentials (AuthBasic).
	Username string
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In is "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name. Defaults to "X-API-Key".
	Name string
	// Apply modifies the request (AuthCustom).
	Apply func(*http.Request)
	// Source supplies tokens (AuthTokenSource).
	Source TokenSource
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// TokenAuth creates an auth config that asks src for a bearer token on every request.
func TokenAuth(src TokenSource) *AuthConfig {
	return &AuthConfig{Type: AuthTokenSource, Source: src}
}

// Auth returns a middleware applying cfg to every request. Requests that
// already carry an Authorization header are left alone for the bearer,
// basic and token source methods. A token source failure aborts the request.
func Auth(cfg *AuthConfig) middleware.Middleware {
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		if cfg == nil || cfg.Type == AuthNone {
			return next.Run(req, ext)
		}
		req = req.Clone(req.Context())
		if err := cfg.apply(req); err != nil {
			return nil, err
		}
		return next.Run(req, ext)
	})
}

func (a *AuthConfig) apply(req *http.Request) error {
	switch a.Type {
	case AuthBearer:
		if req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "Bearer "+a.Token)
		}
	case AuthBasic:
		if req.Header.Get("Authorization") == "" {
			req.SetBasicAuth(a.Username, a.Password)
		}
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	case AuthTokenSource:
		if req.Header.Get("Authorization") != "" || a.Source == nil {
			return nil
		}
		token, err := a.Source.Token(req.Context())
		if err != nil {
			return fmt.Errorf("interceptor: auth token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}
