// Package compat lets calling code issue HTTP requests through one API
// whether the transport is a plain httpclient.Client or a middleware.Client.
//
// A Client is created from either backend and hands out RequestBuilders of
// the matching kind:
//
//	c := compat.FromPlain(plain)           // or compat.FromMiddleware(chain)
//	resp, err := c.Post("/items").
//		Header("X-Tenant", "acme").
//		JSON(item).
//		WithExtension(tenant).             // no-op on the plain backend
//		Send(ctx)
//
// Failures come back as *Error tagged KindTransport (the plain backend
// failed) or KindMiddleware (the chain failed, possibly because the
// transport below it did). Requests that could not be built (bad URL,
// invalid header, unencodable body) return the backend's *httpclient.Error
// of kind builder, untagged. Responses are returned unchanged, including
// 4xx and 5xx ones.
//
// Build tags trim the surface: nomiddleware removes the middleware backend
// and turns extensions into no-ops, nojson removes JSON bodies and
// nomultipart removes multipart bodies.
package compat
