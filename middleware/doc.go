//go:build !nomiddleware

// Package middleware runs an ordered chain of request middlewares in front of
// an httpclient.Client.
//
// A middleware sees the outgoing *http.Request together with the request's
// extensions bag and decides whether and how to call the rest of the chain:
//
//	c := middleware.NewClientBuilder(inner).
//		With(interceptor.RequestID(""), interceptor.Retry(interceptor.DefaultRetryConfig())).
//		Build()
//
//	resp, err := c.Get("/users").WithExtension(tenant).Send(ctx)
//
// Middlewares run in the order they were added. The last one hands the
// request to the inner client.
//
// The package is excluded from builds with the nomiddleware tag.
package middleware
