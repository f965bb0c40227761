//go:build !nojson

package compat

// JSON encodes v as the request body and sets Content-Type to
// application/json unless already set. An encoding failure is reported by
// Build or Send.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.JSON(v)
	case BackendMiddleware:
		b.mw.JSON(v)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}
