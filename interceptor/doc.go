//go:build !nomiddleware

// Package interceptor provides stock middlewares for middleware.Client.
//
//	c := middleware.NewClientBuilder(inner).
//		With(
//			interceptor.RequestID(""),
//			interceptor.Logging(log),
//			interceptor.Tracing(nil, nil),
//			interceptor.Retry(interceptor.DefaultRetryConfig()),
//			interceptor.Auth(interceptor.BearerAuth(token)),
//		).
//		Build()
//
// Order matters: a middleware only observes what runs after it. Retry placed
// before Auth re-runs authentication on every attempt.
//
// Interceptors never mutate the caller's *http.Request; they clone it before
// changing headers or the URL.
package interceptor
