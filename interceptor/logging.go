//go:build !nomiddleware

package interceptor

import (
	"maps"
	"net/http"
	"time"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/middleware"
)

// Logging logs each exchange: debug on success, warn on 4xx/5xx, error on
// failure. Placed after RequestID it includes the request ID.
func Logging(l *logger.Logger) middleware.Middleware {
	log := logger.OrNop(l).WithComponent("httpkit")
	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		start := time.Now()
		resp, err := next.Run(req, ext)

		fields := logger.Fields(logger.FieldMethod, req.Method, logger.FieldURL, req.URL.Redacted())
		if id, ok := RequestIDFrom(ext); ok {
			fields[logger.FieldRequestID] = id
		}
		maps.Copy(fields, logger.DurationFields("http_request", time.Since(start)))

		switch {
		case err != nil:
			log.Error("http request failed", fields, logger.ErrorFields("http_request", err))
		case resp.StatusCode >= http.StatusBadRequest:
			fields[logger.FieldStatusCode] = resp.StatusCode
			log.Warn("http request returned error status", fields)
		default:
			fields[logger.FieldStatusCode] = resp.StatusCode
			log.Debug("http request completed", fields)
		}
		return resp, err
	})
}
