//go:build !nomultipart

package compat

import "github.com/kbukum/httpkit/httpclient"

// Multipart sets a multipart/form-data body. A form with streamed parts
// makes the builder impossible to clone.
func (b *RequestBuilder) Multipart(form *httpclient.MultipartForm) *RequestBuilder {
	if b.spent {
		return b
	}
	switch b.backend {
	case BackendPlain:
		b.plain.Multipart(form)
	case BackendMiddleware:
		b.mw.Multipart(form)
	default:
		panic(invalidBackend(b.backend))
	}
	return b
}
