package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrTooManyRedirects is returned (wrapped) when Config.MaxRedirects is exceeded.
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrorKind classifies transport errors.
type ErrorKind int

const (
	// KindBuilder indicates the request could not be built (URL, header, body).
	KindBuilder ErrorKind = iota
	// KindRequest indicates the request failed for a reason not covered below.
	KindRequest
	// KindConnect indicates dialing failed (refused, DNS, unreachable).
	KindConnect
	// KindTimeout indicates a deadline expired.
	KindTimeout
	// KindRedirect indicates the redirect policy stopped the request.
	KindRedirect
	// KindBody indicates reading the response body failed.
	KindBody
	// KindDecode indicates the response body could not be decoded.
	KindDecode
	// KindStatus indicates a 4xx/5xx status, produced by ErrorForStatus.
	KindStatus
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindBuilder:
		return "builder"
	case KindRequest:
		return "request"
	case KindConnect:
		return "connect"
	case KindTimeout:
		return "timeout"
	case KindRedirect:
		return "redirect"
	case KindBody:
		return "body"
	case KindDecode:
		return "decode"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is a classified transport error.
type Error struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Method is the request method, when known.
	Method string
	// URL is the request URL with any password redacted, when known.
	URL string
	// StatusCode is set for KindStatus.
	StatusCode int
	// Err is the underlying error. Nil for KindStatus.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "httpclient: " + e.Kind.String() + " error"
	if e.Method != "" || e.URL != "" {
		msg += fmt.Sprintf(" for %s %s", e.Method, e.URL)
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindConnect, KindTimeout:
		return true
	case KindStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func newBuilderError(method, rawURL string, err error) *Error {
	return &Error{Kind: KindBuilder, Method: method, URL: redact(rawURL), Err: err}
}

// classifySendError maps an error from http.Client.Do to a classified Error.
func classifySendError(req *http.Request, err error) *Error {
	kind := KindRequest
	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		kind = KindRedirect
	case isTimeoutCause(err):
		kind = KindTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial", errors.As(err, &dnsErr):
		kind = KindConnect
	}
	return &Error{Kind: kind, Method: req.Method, URL: req.URL.Redacted(), Err: err}
}

func isTimeoutCause(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) && netErr.Timeout()
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}

func kindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := kindOf(err)
	return ok && k == kind
}

// IsBuilder checks if err is a request construction error.
func IsBuilder(err error) bool { return isKind(err, KindBuilder) }

// IsConnect checks if err is a connection error.
func IsConnect(err error) bool { return isKind(err, KindConnect) }

// IsTimeout checks if err is a timeout error.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsRedirect checks if err is a redirect policy error.
func IsRedirect(err error) bool { return isKind(err, KindRedirect) }

// IsBody checks if err is a body read error.
func IsBody(err error) bool { return isKind(err, KindBody) }

// IsDecode checks if err is a body decode error.
func IsDecode(err error) bool { return isKind(err, KindDecode) }

// IsStatus checks if err is an HTTP status error.
func IsStatus(err error) bool { return isKind(err, KindStatus) }

// IsRetryable checks if err is a retryable transport error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

// StatusCode returns the status code carried by a KindStatus error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
