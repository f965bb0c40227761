package compat

import (
	"context"
	"net/http"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
)

// Backend identifies the transport behind a Client or RequestBuilder.
type Backend int

const (
	// BackendPlain is an *httpclient.Client.
	BackendPlain Backend = iota
	// BackendMiddleware is a *middleware.Client. It never occurs in builds
	// with the nomiddleware tag.
	BackendMiddleware
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendPlain:
		return "plain"
	case BackendMiddleware:
		return "middleware"
	default:
		return "unknown"
	}
}

// Client is either a plain or a middleware client. It is immutable and safe
// for concurrent use. The zero value is not usable; construct one with
// FromPlain or FromMiddleware.
type Client struct {
	backend Backend
	plain   *httpclient.Client
	mw      *mwClient
}

// FromPlain wraps a plain client. c must not be nil.
func FromPlain(c *httpclient.Client) *Client {
	return &Client{backend: BackendPlain, plain: c}
}

// Backend reports which backend c dispatches to.
func (c *Client) Backend() Backend {
	return c.backend
}

// Plain returns the plain client, if that is the backend.
func (c *Client) Plain() (*httpclient.Client, bool) {
	return c.plain, c.backend == BackendPlain
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

// Request starts a request on the client's backend. No I/O happens here; an
// unparsable URL is reported by Build or Send.
func (c *Client) Request(method, rawURL string) *RequestBuilder {
	switch c.backend {
	case BackendPlain:
		return &RequestBuilder{backend: BackendPlain, plain: c.plain.Request(method, rawURL)}
	case BackendMiddleware:
		return &RequestBuilder{backend: BackendMiddleware, mw: c.mw.Request(method, rawURL)}
	default:
		panic(invalidBackend(c.backend))
	}
}

// Execute sends a prepared request. The middleware backend starts with an
// empty extensions bag.
func (c *Client) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.ExecuteWithExtensions(ctx, req, extensions.New())
}

// ExecuteWithExtensions sends a prepared request, handing ext to the
// middleware chain. The plain backend ignores ext.
func (c *Client) ExecuteWithExtensions(ctx context.Context, req *http.Request, ext *extensions.Extensions) (*http.Response, error) {
	switch c.backend {
	case BackendPlain:
		resp, err := c.plain.Execute(ctx, req)
		if err != nil {
			return nil, fromPlainSend(err)
		}
		return resp, nil
	case BackendMiddleware:
		return mwExecute(ctx, c.mw, req, ext)
	default:
		panic(invalidBackend(c.backend))
	}
}

func invalidBackend(b Backend) string {
	return "compat: invalid backend " + b.String() + "; use FromPlain or FromMiddleware"
}
