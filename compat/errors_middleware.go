//go:build !nomiddleware

package compat

import (
	"errors"

	"github.com/kbukum/httpkit/middleware"
)

// NewMiddlewareError tags a middleware backend error.
func NewMiddlewareError(err *middleware.Error) *Error {
	return &Error{Kind: KindMiddleware, Err: err}
}

// Middleware returns the middleware backend error when Kind is KindMiddleware.
func (e *Error) Middleware() (*middleware.Error, bool) {
	if e.Kind != KindMiddleware {
		return nil, false
	}
	me, ok := e.Err.(*middleware.Error)
	return me, ok
}

// fromMiddlewareSend maps an error of the middleware backend's Send.
// Builder errors pass through untagged.
func fromMiddlewareSend(err error) error {
	var me *middleware.Error
	if errors.As(err, &me) {
		return NewMiddlewareError(me)
	}
	return err
}
