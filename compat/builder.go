package compat

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
)

// RequestBuilder accumulates one request for the backend of the Client that
// created it. Every method returns the builder to keep chaining. After Send
// the builder is spent: configuration calls do nothing and Build, Send and
// Err report ErrBuilderConsumed.
type RequestBuilder struct {
	backend Backend
	plain   *httpclient.RequestBuilder
	mw      *mwBuilder
	spent   bool
}

// Backend reports which backend the builder dispatches to.
func (b *RequestBuilder) Backend() Backend {
	return b.backend
}

// Header appends a header value.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Header(key, value)
	case BackendMiddleware:
		b.mw.Header(key, value)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Headers merges h into the request. Keys in h replace existing values.
func (b *RequestBuilder) Headers(h http.Header) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Headers(h)
	case BackendMiddleware:
		b.mw.Headers(h)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Query appends URL query parameters.
func (b *RequestBuilder) Query(params url.Values) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Query(params)
	case BackendMiddleware:
		b.mw.Query(params)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// QueryParam appends a single query parameter.
func (b *RequestBuilder) QueryParam(key, value string) *RequestBuilder {
	return b.Query(url.Values{key: {value}})
}

// Body sets the request body: []byte, string or io.Reader. A reader other
// than *bytes.Reader, *bytes.Buffer or *strings.Reader is streamed, which
// makes the builder impossible to clone.
func (b *RequestBuilder) Body(body any) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Body(body)
	case BackendMiddleware:
		b.mw.Body(body)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Form sets a URL-encoded form body.
func (b *RequestBuilder) Form(values url.Values) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Form(values)
	case BackendMiddleware:
		b.mw.Form(values)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// BasicAuth sets HTTP Basic credentials.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.BasicAuth(username, password)
	case BackendMiddleware:
		b.mw.BasicAuth(username, password)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// BearerAuth sets a bearer token.
func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.BearerAuth(token)
	case BackendMiddleware:
		b.mw.BearerAuth(token)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Timeout bounds the request from send until the body is closed. On the
// middleware backend it bounds each pass through the transport.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Timeout(d)
	case BackendMiddleware:
		b.mw.Timeout(d)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Version pins the HTTP version used on the wire: 1.0, 1.1 or 2.0. Other
// versions are reported by Build and Send.
func (b *RequestBuilder) Version(major, minor int) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Version(major, minor)
	case BackendMiddleware:
		b.mw.Version(major, minor)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// WithExtension stores v, keyed by its dynamic type, in the extensions
// handed to the middleware chain. The plain backend ignores it.
func (b *RequestBuilder) WithExtension(v any) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
	case BackendMiddleware:
		b.mw.WithExtension(v)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}

// Extensions returns the middleware backend's bag, or nil for the plain
// backend. A nil bag is empty and safe to read.
func (b *RequestBuilder) Extensions() *extensions.Extensions {
	switch b.backend {
	case BackendPlain:
		return nil
	case BackendMiddleware:
		return b.mw.Extensions()
	default:
		panic(invalidBackend(b.backend))
	}
}

// TryClone copies the builder. It returns false when the body is a stream,
// when the builder holds a construction error, or when it was already sent.
// Extensions are not copied.
func (b *RequestBuilder) TryClone() (*RequestBuilder, bool) {
	if b.spent {
		return nil, false
	}
	switch b.backend {
	case BackendPlain:
		p, ok := b.plain.TryClone()
		if !ok {
			return nil, false
		}
		return &RequestBuilder{backend: BackendPlain, plain: p}, true
	case BackendMiddleware:
		m, ok := b.mw.TryClone()
		if !ok {
			return nil, false
		}
		return &RequestBuilder{backend: BackendMiddleware, mw: m}, true
	default:
		panic(invalidBackend(b.backend))
	}
}

// Err returns the first construction error, or ErrBuilderConsumed.
func (b *RequestBuilder) Err() error {
	if b.spent {
		return ErrBuilderConsumed
	}
	switch b.backend {
	case BackendPlain:
		return b.plain.Err()
	case BackendMiddleware:
		return b.mw.Err()
	default:
		panic(invalidBackend(b.backend))
	}
}

// Build returns the accumulated request without sending it.
func (b *RequestBuilder) Build() (*http.Request, error) {
	if b.spent {
		return nil, ErrBuilderConsumed
	}
	switch b.backend {
	case BackendPlain:
		return b.plain.Build()
	case BackendMiddleware:
		return b.mw.Build()
	default:
		panic(invalidBackend(b.backend))
	}
}

// Send executes the request and spends the builder. The response is
// returned unchanged whatever its status; the caller must close its body.
func (b *RequestBuilder) Send(ctx context.Context) (*http.Response, error) {
	if b.spent {
		return nil, ErrBuilderConsumed
	}
	b.spent = true
	switch b.backend {
	case BackendPlain:
		resp, err := b.plain.Send(ctx)
		if err != nil {
			return nil, fromPlainSend(err)
		}
		return resp, nil
	case BackendMiddleware:
		return mwSend(ctx, b.mw)
	default:
		panic(invalidBackend(b.backend))
	}
}
