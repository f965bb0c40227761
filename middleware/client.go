//go:build !nomiddleware

package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
)

// ClientBuilder assembles a Client.
type ClientBuilder struct {
	inner        *httpclient.Client
	middlewares  []Middleware
	initialisers []Initialiser
	log          *logger.Logger
}

// NewClientBuilder starts a chain in front of inner.
func NewClientBuilder(inner *httpclient.Client) *ClientBuilder {
	return &ClientBuilder{inner: inner}
}

// With appends middlewares. Nil entries are skipped.
func (b *ClientBuilder) With(mw ...Middleware) *ClientBuilder {
	b.middlewares = append(b.middlewares, lo.Filter(mw, func(m Middleware, _ int) bool {
		return m != nil
	})...)
	return b
}

// WithInit appends builder initialisers. Nil entries are skipped.
func (b *ClientBuilder) WithInit(init ...Initialiser) *ClientBuilder {
	b.initialisers = append(b.initialisers, lo.Filter(init, func(i Initialiser, _ int) bool {
		return i != nil
	})...)
	return b
}

// WithLogger sets the logger used to report the assembled chain.
func (b *ClientBuilder) WithLogger(l *logger.Logger) *ClientBuilder {
	b.log = l
	return b
}

// Build returns the client. The builder may be reused; later changes do not
// affect clients already built.
func (b *ClientBuilder) Build() *Client {
	inner := b.inner
	if inner == nil {
		inner = httpclient.Wrap(nil)
	}
	c := &Client{
		inner:        inner,
		middlewares:  append([]Middleware(nil), b.middlewares...),
		initialisers: append([]Initialiser(nil), b.initialisers...),
	}

	log := logger.OrNop(b.log).WithComponent("middleware")
	if log.DebugEnabled() {
		log.Debug("middleware chain assembled", map[string]any{
			"middlewares":  lo.Map(c.middlewares, func(m Middleware, _ int) string { return fmt.Sprintf("%T", m) }),
			"initialisers": len(c.initialisers),
		})
	}
	return c
}

// Client is an httpclient.Client with a middleware chain. It is immutable and
// safe for concurrent use.
type Client struct {
	inner        *httpclient.Client
	middlewares  []Middleware
	initialisers []Initialiser
}

// New is shorthand for NewClientBuilder(inner).With(mw...).Build().
func New(inner *httpclient.Client, mw ...Middleware) *Client {
	return NewClientBuilder(inner).With(mw...).Build()
}

// Inner returns the wrapped client.
func (c *Client) Inner() *httpclient.Client {
	return c.inner
}

// Len returns the number of middlewares in the chain.
func (c *Client) Len() int {
	return len(c.middlewares)
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

// Request starts a request with an arbitrary method and runs the client's
// initialisers on the new builder.
func (c *Client) Request(method, rawURL string) *RequestBuilder {
	b := &RequestBuilder{client: c, inner: c.inner.Request(method, rawURL), ext: extensions.New()}
	for _, init := range c.initialisers {
		b = init.Init(b)
	}
	return b
}

// Execute runs req through the chain with an empty extensions bag.
func (c *Client) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.ExecuteWithExtensions(ctx, req, extensions.New())
}

// ExecuteWithExtensions runs req through the chain. Middlewares read and
// write ext. Failures are returned as *Error.
func (c *Client) ExecuteWithExtensions(ctx context.Context, req *http.Request, ext *extensions.Extensions) (*http.Response, error) {
	if ext == nil {
		ext = extensions.New()
	}
	if _, set := httpclient.TimeoutFromContext(ctx); !set {
		if d, ok := httpclient.TimeoutFromContext(req.Context()); ok {
			ctx = httpclient.ContextWithTimeout(ctx, d)
		}
	}
	resp, err := Next{client: c, rest: c.middlewares}.Run(req.WithContext(ctx), ext)
	if err != nil {
		return nil, classify(err)
	}
	return resp, nil
}
