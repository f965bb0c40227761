//go:build !nomiddleware

package middleware

import (
	"errors"

	"github.com/kbukum/httpkit/httpclient"
)

// ErrorKind tells where in the chain a failure originated.
type ErrorKind int

const (
	// KindMiddleware is a failure raised by a middleware.
	KindMiddleware ErrorKind = iota
	// KindTransport is a failure of the inner client, returned unchanged by
	// every middleware in the chain.
	KindTransport
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindMiddleware:
		return "middleware"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Execute for failures of the chain.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "middleware: " + e.Kind.String() + " error: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transport returns the inner client's error when Kind is KindTransport.
func (e *Error) Transport() (*httpclient.Error, bool) {
	if e.Kind != KindTransport {
		return nil, false
	}
	te, ok := e.Err.(*httpclient.Error)
	return te, ok
}

// classify tags a chain error. A *httpclient.Error that reaches the top
// unwrapped is a transport failure; anything else came from a middleware.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	if me, ok := err.(*Error); ok {
		return me
	}
	if te, ok := err.(*httpclient.Error); ok {
		return &Error{Kind: KindTransport, Err: te}
	}
	return &Error{Kind: KindMiddleware, Err: err}
}

// IsMiddleware checks if err was raised by a middleware.
func IsMiddleware(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindMiddleware
}

// IsTransport checks if err is an inner client failure.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}
