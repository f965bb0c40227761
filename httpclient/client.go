package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client sends HTTP requests. It is safe for concurrent use and should be
// created once and shared; the transport pools connections internally.
type Client struct {
	httpClient *http.Client
	config     Config

	mu     sync.Mutex
	pinned map[int]*http.Client // by HTTP major version
}

// New creates a client with its own transport built from cfg.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout, KeepAlive: 30 * time.Second}
	transport.DialContext = dialer.DialContext
	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	if cfg.ForceHTTP2 {
		var protocols http.Protocols
		protocols.SetHTTP2(true)
		protocols.SetUnencryptedHTTP2(true)
		transport.Protocols = &protocols
	}

	return &Client{
		httpClient: &http.Client{
			Transport:     transport,
			Timeout:       cfg.Timeout,
			CheckRedirect: redirectPolicy(cfg.MaxRedirects),
		},
		config: cfg,
	}, nil
}

// Wrap adopts an existing *http.Client as is. Config-driven behaviour
// (base URL, default headers) is disabled.
func Wrap(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{httpClient: hc}
}

// Get starts a GET request.
func (c *Client) Get(rawURL string) *RequestBuilder { return c.Request(http.MethodGet, rawURL) }

// Post starts a POST request.
func (c *Client) Post(rawURL string) *RequestBuilder { return c.Request(http.MethodPost, rawURL) }

// Put starts a PUT request.
func (c *Client) Put(rawURL string) *RequestBuilder { return c.Request(http.MethodPut, rawURL) }

// Patch starts a PATCH request.
func (c *Client) Patch(rawURL string) *RequestBuilder { return c.Request(http.MethodPatch, rawURL) }

// Delete starts a DELETE request.
func (c *Client) Delete(rawURL string) *RequestBuilder { return c.Request(http.MethodDelete, rawURL) }

// Head starts a HEAD request.
func (c *Client) Head(rawURL string) *RequestBuilder { return c.Request(http.MethodHead, rawURL) }

// Request starts a request with an arbitrary method. No I/O happens until Send.
// A URL that cannot be parsed is reported by Build/Send.
func (c *Client) Request(method, rawURL string) *RequestBuilder {
	b := &RequestBuilder{client: c}
	u, err := c.resolveURL(rawURL)
	if err != nil {
		b.err = newBuilderError(method, rawURL, err)
		return b
	}
	req, err := http.NewRequest(method, u.String(), nil)
	if err != nil {
		b.err = newBuilderError(method, rawURL, err)
		return b
	}
	b.req = req
	return b
}

// Execute sends a prepared request. Default headers are filled in, a
// timeout attached with ContextWithTimeout is applied, and a version set by
// RequestBuilder.Version selects a transport pinned to that protocol. The
// response is returned unchanged whatever its status; the caller must close
// its body.
func (c *Client) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	if _, set := TimeoutFromContext(ctx); !set {
		if d, ok := TimeoutFromContext(req.Context()); ok {
			ctx = ContextWithTimeout(ctx, d)
		}
	}

	hc := c.httpClient
	major, pin := versionFromContext(ctx)
	if !pin {
		major, pin = versionFromContext(req.Context())
	}
	if pin {
		pinned, err := c.clientFor(major)
		if err != nil {
			return nil, &Error{Kind: KindRequest, Method: req.Method, URL: req.URL.Redacted(), Err: err}
		}
		hc = pinned
	}

	cancel := context.CancelFunc(func() {})
	if d, ok := TimeoutFromContext(ctx); ok && d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	}

	req = req.WithContext(ctx)
	c.applyDefaultHeaders(req)

	resp, err := hc.Do(req)
	if err != nil {
		cancel()
		return nil, classifySendError(req, err)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// HTTPClient returns the underlying *http.Client for advanced use cases.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Config returns the client's effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// CloseIdleConnections closes pooled connections that are not in use.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, hc := range c.pinned {
		hc.CloseIdleConnections()
	}
}

// clientFor returns a copy of the client whose transport speaks only the
// given HTTP major version. Copies are built on first use and reused.
func (c *Client) clientFor(major int) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hc, ok := c.pinned[major]; ok {
		return hc, nil
	}

	rt := c.httpClient.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	base, ok := rt.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("HTTP/%d requested but transport %T cannot pin the protocol", major, rt)
	}
	transport := base.Clone()
	var protocols http.Protocols
	switch major {
	case 1:
		protocols.SetHTTP1(true)
	case 2:
		protocols.SetHTTP2(true)
		protocols.SetUnencryptedHTTP2(true)
	default:
		return nil, fmt.Errorf("unsupported HTTP version %d", major)
	}
	transport.Protocols = &protocols

	hc := *c.httpClient
	hc.Transport = transport
	if c.pinned == nil {
		c.pinned = make(map[int]*http.Client)
	}
	c.pinned[major] = &hc
	return &hc, nil
}

func (c *Client) resolveURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		if c.config.BaseURL == "" {
			return nil, fmt.Errorf("relative URL %q without a base URL", rawURL)
		}
		joined := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(rawURL, "/")
		if u, err = url.Parse(joined); err != nil {
			return nil, err
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL scheme %q is not allowed", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", rawURL)
	}
	return u, nil
}

func (c *Client) applyDefaultHeaders(req *http.Request) {
	if len(c.config.Headers) == 0 && c.config.UserAgent == "" {
		return
	}
	req.Header = req.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	for k, v := range c.config.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

func redirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if maxRedirects < 0 {
			return http.ErrUseLastResponse
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, len(via))
		}
		return nil
	}
}

// cancelOnClose releases a per-request deadline once the body is closed, so
// the timeout keeps covering body reads.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

type (
	timeoutKey struct{}
	versionKey struct{}
)

// ContextWithTimeout records a per-request timeout for Client.Execute to
// apply. Unlike context.WithTimeout the clock starts when the request is
// executed, so each attempt of a retried request gets the full budget.
func ContextWithTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, timeoutKey{}, d)
}

// TimeoutFromContext returns the timeout recorded by ContextWithTimeout.
func TimeoutFromContext(ctx context.Context) (time.Duration, bool) {
	d, ok := ctx.Value(timeoutKey{}).(time.Duration)
	return d, ok
}

func contextWithVersion(ctx context.Context, major int) context.Context {
	return context.WithValue(ctx, versionKey{}, major)
}

func versionFromContext(ctx context.Context) (int, bool) {
	major, ok := ctx.Value(versionKey{}).(int)
	return major, ok
}
