//go:build !nomiddleware

package compat

import (
	"context"
	"net/http"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

type (
	mwClient  = middleware.Client
	mwBuilder = middleware.RequestBuilder
)

// FromMiddleware wraps a middleware client. c must not be nil.
func FromMiddleware(c *middleware.Client) *Client {
	return &Client{backend: BackendMiddleware, mw: c}
}

// Middleware returns the middleware client, if that is the backend.
func (c *Client) Middleware() (*middleware.Client, bool) {
	return c.mw, c.backend == BackendMiddleware
}

func mwExecute(ctx context.Context, c *mwClient, req *http.Request, ext *extensions.Extensions) (*http.Response, error) {
	resp, err := c.ExecuteWithExtensions(ctx, req, ext)
	if err != nil {
		return nil, fromMiddlewareSend(err)
	}
	return resp, nil
}

func mwSend(ctx context.Context, b *mwBuilder) (*http.Response, error) {
	resp, err := b.Send(ctx)
	if err != nil {
		return nil, fromMiddlewareSend(err)
	}
	return resp, nil
}
