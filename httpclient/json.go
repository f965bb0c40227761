//go:build !nojson

package httpclient

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/kbukum/httpkit/internal/json"
)

// JSON encodes v as the request body and sets Content-Type to
// application/json unless the request already has one.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	if b.err != nil {
		return b
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.fail(fmt.Errorf("encode json body: %w", err))
		return b
	}
	if b.req.Header.Get("Content-Type") == "" {
		b.req.Header.Set("Content-Type", "application/json")
	}
	b.setBody(bytes.NewReader(data))
	return b
}

// DecodeJSON reads resp.Body into v and closes it. Read failures are
// KindBody errors, malformed JSON is a KindDecode error.
func DecodeJSON(resp *http.Response, v any) error {
	data, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindDecode, Method: methodOf(resp), URL: urlOf(resp), Err: err}
	}
	return nil
}
