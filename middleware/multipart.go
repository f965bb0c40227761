//go:build !nomiddleware && !nomultipart

package middleware

import "github.com/kbukum/httpkit/httpclient"

// Multipart sets a multipart/form-data body.
func (b *RequestBuilder) Multipart(form *httpclient.MultipartForm) *RequestBuilder {
	b.inner.Multipart(form)
	return b
}
