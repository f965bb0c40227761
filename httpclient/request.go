package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// RequestBuilder accumulates a single request. Each method returns the
// builder to keep chaining. A builder belongs to one goroutine.
type RequestBuilder struct {
	client *Client
	req    *http.Request
	err    error
}

// Header appends a header value.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if err := validHeader(key, value); err != nil {
		b.fail(err)
		return b
	}
	b.req.Header.Add(key, value)
	return b
}

// Headers merges h into the request. Keys present in h replace existing values.
func (b *RequestBuilder) Headers(h http.Header) *RequestBuilder {
	if b.err != nil {
		return b
	}
	for key, values := range h {
		for _, v := range values {
			if err := validHeader(key, v); err != nil {
				b.fail(err)
				return b
			}
		}
		b.req.Header.Del(key)
		for _, v := range values {
			b.req.Header.Add(key, v)
		}
	}
	return b
}

// Query appends URL query parameters.
func (b *RequestBuilder) Query(params url.Values) *RequestBuilder {
	if b.err != nil || len(params) == 0 {
		return b
	}
	encoded := params.Encode()
	if b.req.URL.RawQuery == "" {
		b.req.URL.RawQuery = encoded
	} else {
		b.req.URL.RawQuery += "&" + encoded
	}
	return b
}

// QueryParam appends a single query parameter.
func (b *RequestBuilder) QueryParam(key, value string) *RequestBuilder {
	return b.Query(url.Values{key: {value}})
}

// Body sets the request body. Accepts []byte, string or io.Reader. A reader
// other than *bytes.Reader, *bytes.Buffer or *strings.Reader is streamed and
// makes the builder impossible to clone.
func (b *RequestBuilder) Body(body any) *RequestBuilder {
	if b.err != nil {
		return b
	}
	switch v := body.(type) {
	case nil:
		b.req.Body, b.req.GetBody, b.req.ContentLength = nil, nil, 0
	case []byte:
		b.setBody(bytes.NewReader(v))
	case string:
		b.setBody(strings.NewReader(v))
	case io.Reader:
		b.setBody(v)
	default:
		b.fail(fmt.Errorf("unsupported body type %T", body))
	}
	return b
}

// Form sets a URL-encoded form body.
func (b *RequestBuilder) Form(values url.Values) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.setBody(strings.NewReader(values.Encode()))
	b.req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b
}

// BasicAuth sets HTTP Basic credentials.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.req.SetBasicAuth(username, password)
	return b
}

// BearerAuth sets a bearer token.
func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.req.Header.Set("Authorization", "Bearer "+token)
	return b
}

// Timeout bounds this request, from send until the body is closed.
func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.req = b.req.WithContext(ContextWithTimeout(b.req.Context(), d))
	return b
}

// Version pins the HTTP version spoken on the wire. 1.1 restricts the
// transport to HTTP/1.1 and 2.0 requires HTTP/2, negotiated through ALPN for
// https and with prior knowledge for http. net/http always writes HTTP/1.1
// request lines, so 1.0 is sent as HTTP/1.1 with "Connection: close". Any
// other version fails the builder.
func (b *RequestBuilder) Version(major, minor int) *RequestBuilder {
	if b.err != nil {
		return b
	}
	switch {
	case major == 1 && (minor == 0 || minor == 1), major == 2 && minor == 0:
	default:
		b.fail(fmt.Errorf("unsupported HTTP version %d.%d", major, minor))
		return b
	}
	b.req.ProtoMajor, b.req.ProtoMinor = major, minor
	b.req.Proto = fmt.Sprintf("HTTP/%d.%d", major, minor)
	b.req.Close = major == 1 && minor == 0
	b.req = b.req.WithContext(contextWithVersion(b.req.Context(), major))
	return b
}

// TryClone copies the builder. It returns false when the body is a stream
// that cannot be replayed or when the builder already holds an error.
func (b *RequestBuilder) TryClone() (*RequestBuilder, bool) {
	if b.err != nil {
		return nil, false
	}
	clone := b.req.Clone(b.req.Context())
	if b.req.Body != nil && b.req.Body != http.NoBody {
		if b.req.GetBody == nil {
			return nil, false
		}
		body, err := b.req.GetBody()
		if err != nil {
			return nil, false
		}
		clone.Body = body
	}
	return &RequestBuilder{client: b.client, req: clone}, true
}

// Err returns the first construction error, if any.
func (b *RequestBuilder) Err() error {
	return b.err
}

// Client returns the client that created the builder.
func (b *RequestBuilder) Client() *Client {
	return b.client
}

// Build returns the accumulated request.
func (b *RequestBuilder) Build() (*http.Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.req, nil
}

// Send executes the request. Construction errors are returned as is.
func (b *RequestBuilder) Send(ctx context.Context) (*http.Response, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.Execute(ctx, req)
}

func (b *RequestBuilder) fail(err error) {
	b.err = newBuilderError(b.req.Method, b.req.URL.String(), err)
}

func (b *RequestBuilder) setBody(r io.Reader) {
	req := b.req
	req.GetBody = nil
	switch v := r.(type) {
	case *bytes.Buffer:
		buf := v.Bytes()
		req.ContentLength = int64(len(buf))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		snapshot := *v
		req.ContentLength = int64(v.Len())
		req.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		snapshot := *v
		req.ContentLength = int64(v.Len())
		req.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	default:
		req.ContentLength = -1
	}

	if req.GetBody != nil && req.ContentLength == 0 {
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		return
	}
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	req.Body = rc
}

func validHeader(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("invalid header name %q", key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid value for header %q", key)
	}
	return nil
}
