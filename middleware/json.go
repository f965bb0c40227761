//go:build !nomiddleware && !nojson

package middleware

// JSON encodes v as the request body.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	b.inner.JSON(v)
	return b
}
