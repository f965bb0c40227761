package httpclient

import (
	"io"
	"net/http"
)

// ErrorForStatus returns a KindStatus error for 4xx and 5xx responses and nil
// otherwise. The body is left untouched.
func ErrorForStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	return &Error{
		Kind:       KindStatus,
		Method:     methodOf(resp),
		URL:        urlOf(resp),
		StatusCode: resp.StatusCode,
	}
}

// ReadBody reads and closes resp.Body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := KindBody
		if isTimeoutCause(err) {
			kind = KindTimeout
		}
		return nil, &Error{Kind: kind, Method: methodOf(resp), URL: urlOf(resp), Err: err}
	}
	return data, nil
}

// Text reads and closes resp.Body as a string.
func Text(resp *http.Response) (string, error) {
	data, err := ReadBody(resp)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func methodOf(resp *http.Response) string {
	if resp.Request == nil {
		return ""
	}
	return resp.Request.Method
}

func urlOf(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Redacted()
}
