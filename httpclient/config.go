package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	defaultMaxRedirects   = 10
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is joined with relative request URLs. Absolute URLs ignore it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole exchange including reading the body. Defaults to 30s.
	// Per-request timeouts set on the builder take precedence when shorter.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ConnectTimeout bounds dialing. Defaults to 10s.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// Headers are applied to every request that does not set them itself.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent when a request has no User-Agent header.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRedirects caps redirect following. Defaults to 10; negative disables following.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects"`

	// MaxIdleConnsPerHost overrides the transport pool size per host.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`

	// ForceHTTP2 restricts the transport to HTTP/2 (h2c prior knowledge for http URLs).
	ForceHTTP2 bool `yaml:"force_http2" mapstructure:"force_http2"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("httpclient: connect_timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("httpclient: base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("httpclient: base_url must be an http or https URL, got %q", c.BaseURL)
		}
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
