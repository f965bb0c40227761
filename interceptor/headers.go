//go:build !nomiddleware

package interceptor

import (
	"net/http"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

// Headers adds h to every request that does not already set the header.
func Headers(h http.Header) middleware.Middleware {
	h = h.Clone()
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		req = req.Clone(req.Context())
		for key, values := range h {
			if req.Header.Get(key) != "" {
				continue
			}
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		return next.Run(req, ext)
	})
}

// SetHeader sets key on every request, replacing any value the caller set.
func SetHeader(key, value string) middleware.Middleware {
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set(key, value)
		return next.Run(req, ext)
	})
}
