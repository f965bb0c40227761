//go:build !nomiddleware

package interceptor

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

const tracerName = "github.com/kbukum/httpkit/interceptor"

// Tracing wraps each pass in a client span and injects the span context
// into the outgoing headers. Nil arguments select the global provider and
// propagator. The span ends when the response headers arrive.
func Tracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) middleware.Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	tracer := tp.Tracer(tracerName)

	return middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(req.Method),
				attribute.String("url.full", req.URL.Redacted()),
				attribute.String("server.address", req.URL.Hostname()),
			),
		)
		defer span.End()

		if id, ok := RequestIDFrom(ext); ok {
			span.SetAttributes(attribute.String("http.request_id", id))
		}

		req = req.Clone(ctx)
		prop.Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.Run(req, ext)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Status)
		}
		return resp, nil
	})
}
