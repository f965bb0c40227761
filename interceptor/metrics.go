//go:build !nomiddleware

package interceptor

import (
	"errors"
	"net/http"
	"time"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/middleware"
	"github.com/kbukum/httpkit/observability"
)

// Metrics records request count, duration and in-flight requests on m.
func Metrics(m *observability.ClientMetrics) middleware.Middleware {
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		ctx := req.Context()
		host := req.URL.Host
		start := time.Now()

		m.RecordRequestStart(ctx, host)
		resp, err := next.Run(req, ext)
		status := 0
		if err == nil {
			status = resp.StatusCode
		}
		m.RecordRequestEnd(ctx, req.Method, host, status, time.Since(start))
		if err != nil {
			m.RecordError(ctx, req.Method, errorType(err))
		}
		return resp, err
	})
}

// errorType names the failure for metric attributes.
func errorType(err error) string {
	var he *httpclient.Error
	if errors.As(err, &he) {
		return he.Kind.String()
	}
	if errors.Is(err, ErrCircuitOpen) {
		return "circuit_open"
	}
	return "middleware"
}
