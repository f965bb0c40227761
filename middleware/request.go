//go:build !nomiddleware

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
)

// RequestBuilder is an httpclient.RequestBuilder plus the extensions handed
// to the chain on Send.
type RequestBuilder struct {
	client *Client
	inner  *httpclient.RequestBuilder
	ext    *extensions.Extensions
}

// Header appends a header value.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.inner.Header(key, value)
	return b
}

// Headers merges h into the request.
func (b *RequestBuilder) Headers(h http.Header) *RequestBuilder {
	b.inner.Headers(h)
	return b
}

// Query appends URL query parameters.
func (b *RequestBuilder) Query(params url.Values) *RequestBuilder {
	b.inner.Query(params)
	return b
}

// QueryParam appends a single query parameter.
func (b *RequestBuilder) QueryParam(key, value string) *RequestBuilder {
	b.inner.QueryParam(key, value)
	return b
}

// Body sets the request body; see httpclient.RequestBuilder.Body.
func (b *RequestBuilder) Body(body any) *RequestBuilder {
	b.inner.Body(body)
	return b
}

// Form sets a URL-encoded form body.
func (b *RequestBuilder) Form(values url.Values) *RequestBuilder {
	b.inner.Form(values)
	return b
}

// BasicAuth sets HTTP Basic credentials.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	b.inner.BasicAuth(username, password)
	return b
}

// BearerAuth sets a bearer token.
func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	b.inner.BearerAuth(token)
	return b
}

// Timeout bounds each pass through the inner client.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.inner.Timeout(d)
	return b
}

// Version records the HTTP version on the request.
func (b *RequestBuilder) Version(major, minor int) *RequestBuilder {
	b.inner.Version(major, minor)
	return b
}

// WithExtension stores v in the request's extensions under its dynamic type,
// replacing any previous value of that type.
func (b *RequestBuilder) WithExtension(v any) *RequestBuilder {
	extensions.InsertAny(b.ext, v)
	return b
}

// Extensions returns the request's bag for direct manipulation.
func (b *RequestBuilder) Extensions() *extensions.Extensions {
	return b.ext
}

// TryClone copies the request. The copy starts with empty extensions.
func (b *RequestBuilder) TryClone() (*RequestBuilder, bool) {
	inner, ok := b.inner.TryClone()
	if !ok {
		return nil, false
	}
	return &RequestBuilder{client: b.client, inner: inner, ext: extensions.New()}, true
}

// Err returns the first construction error, if any.
func (b *RequestBuilder) Err() error {
	return b.inner.Err()
}

// Build returns the accumulated request.
func (b *RequestBuilder) Build() (*http.Request, error) {
	return b.inner.Build()
}

// Send runs the request through the chain. Construction errors are returned
// as the *httpclient.Error recorded by the builder; chain failures as *Error.
func (b *RequestBuilder) Send(ctx context.Context) (*http.Response, error) {
	req, err := b.inner.Build()
	if err != nil {
		return nil, err
	}
	return b.client.ExecuteWithExtensions(ctx, req, b.ext)
}
