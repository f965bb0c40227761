//go:build !nomiddleware

package interceptor

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

// DefaultRequestIDHeader is the header RequestID uses when none is given.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDValue is stored in the extensions by RequestID so later
// middlewares (logging, tracing) can read it.
type RequestIDValue string

// RequestID ensures every request carries an ID header. An ID already on the
// request, or a RequestIDValue in its extensions, is reused; otherwise a
// random UUID is generated.
func RequestID(header string) middleware.Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		id := req.Header.Get(header)
		if id == "" {
			if v, ok := extensions.Get[RequestIDValue](ext); ok && v != "" {
				id = string(v)
			} else {
				id = uuid.NewString()
			}
			req = req.Clone(req.Context())
			req.Header.Set(header, id)
		}
		extensions.Insert(ext, RequestIDValue(id))
		return next.Run(req, ext)
	})
}

// RequestIDFrom returns the ID recorded by RequestID.
func RequestIDFrom(ext *extensions.Extensions) (string, bool) {
	v, ok := extensions.Get[RequestIDValue](ext)
	return string(v), ok
}
