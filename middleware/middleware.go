//go:build !nomiddleware

package middleware

import (
	"net/http"

	"github.com/kbukum/httpkit/extensions"
)

// Middleware intercepts a request on its way to the transport.
type Middleware interface {
	Handle(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error)
}

// Func adapts a function to Middleware.
type Func func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error)

// Handle calls f.
func (f Func) Handle(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
	return f(req, ext, next)
}

// Next is the remainder of the chain. It is a value and may be run more than
// once, e.g. by a retrying middleware.
type Next struct {
	client *Client
	rest   []Middleware
}

// Run passes req to the next middleware, or to the inner client when the
// chain is exhausted. The request context carries cancellation.
func (n Next) Run(req *http.Request, ext *extensions.Extensions) (*http.Response, error) {
	if len(n.rest) == 0 {
		return n.client.inner.Execute(req.Context(), req)
	}
	return n.rest[0].Handle(req, ext, Next{client: n.client, rest: n.rest[1:]})
}

// Initialiser prepares every builder created by a Client, typically by
// attaching default extensions.
type Initialiser interface {
	Init(b *RequestBuilder) *RequestBuilder
}

// InitFunc adapts a function to Initialiser.
type InitFunc func(b *RequestBuilder) *RequestBuilder

// Init calls f.
func (f InitFunc) Init(b *RequestBuilder) *RequestBuilder {
	return f(b)
}

// Extension returns an Initialiser that attaches v to every request.
func Extension(v any) Initialiser {
	return InitFunc(func(b *RequestBuilder) *RequestBuilder {
		return b.WithExtension(v)
	})
}
