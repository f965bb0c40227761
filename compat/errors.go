package compat

import (
	"errors"

	"github.com/kbukum/httpkit/httpclient"
)

// ErrBuilderConsumed is returned by a RequestBuilder that was already sent.
var ErrBuilderConsumed = errors.New("compat: request builder already sent")

// ErrorKind tells which backend a failure came from.
type ErrorKind int

const (
	// KindTransport is a failure of the plain backend.
	KindTransport ErrorKind = iota
	// KindMiddleware is a failure of the middleware backend. The cause is a
	// *middleware.Error, which may itself carry a transport failure.
	KindMiddleware
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMiddleware:
		return "middleware"
	default:
		return "unknown"
	}
}

// Error is the unified failure of Send and Execute. The cause is kept as
// is, so errors.As reaches *httpclient.Error through either kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewTransportError tags a plain backend error.
func NewTransportError(err *httpclient.Error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindMiddleware:
		return "middleware error: " + e.Err.Error()
	default:
		return "request error: " + e.Err.Error()
	}
}

// Unwrap returns the backend error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transport returns the plain backend error when Kind is KindTransport.
func (e *Error) Transport() (*httpclient.Error, bool) {
	if e.Kind != KindTransport {
		return nil, false
	}
	te, ok := e.Err.(*httpclient.Error)
	return te, ok
}

// IsTransport checks if err is a plain backend failure.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}

// IsMiddleware checks if err is a middleware backend failure.
func IsMiddleware(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindMiddleware
}

// fromPlainSend maps an error of the plain backend's Send. Builder errors
// pass through untagged.
func fromPlainSend(err error) error {
	var he *httpclient.Error
	if !errors.As(err, &he) {
		return &Error{Kind: KindTransport, Err: err}
	}
	if he.Kind == httpclient.KindBuilder {
		return he
	}
	return NewTransportError(he)
}
