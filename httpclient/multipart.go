//go:build !nomultipart

package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartForm is a multipart/form-data body. Parts are sent in the order
// they were added.
type MultipartForm struct {
	parts    []formPart
	boundary string
}

type formPart struct {
	name        string
	fileName    string
	contentType string
	data        []byte
	reader      io.Reader
}

// NewMultipartForm returns an empty form.
func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

// Text adds a simple field.
func (f *MultipartForm) Text(name, value string) *MultipartForm {
	f.parts = append(f.parts, formPart{name: name, data: []byte(value)})
	return f
}

// File adds an in-memory file. An empty contentType means application/octet-stream.
func (f *MultipartForm) File(name, fileName, contentType string, data []byte) *MultipartForm {
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, contentType: contentType, data: data})
	return f
}

// Reader adds a streamed file. A form holding a streamed part cannot be
// replayed, so builders carrying it cannot be cloned.
func (f *MultipartForm) Reader(name, fileName, contentType string, r io.Reader) *MultipartForm {
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, contentType: contentType, reader: r})
	return f
}

// Boundary fixes the boundary instead of a random one.
func (f *MultipartForm) Boundary(boundary string) *MultipartForm {
	f.boundary = boundary
	return f
}

// Multipart sets form as the body and the matching Content-Type header.
func (b *RequestBuilder) Multipart(form *MultipartForm) *RequestBuilder {
	if b.err != nil {
		return b
	}
	body, contentType, err := form.encode()
	if err != nil {
		b.fail(err)
		return b
	}
	b.setBody(body)
	b.req.Header.Set("Content-Type", contentType)
	return b
}

// encode renders the form. In-memory parts are framed into buffers and
// streamed parts are spliced in between, so nothing is read from a streamed
// part before the request is sent.
func (f *MultipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if f.boundary != "" {
		if err := w.SetBoundary(f.boundary); err != nil {
			return nil, "", err
		}
	}

	var segments []io.Reader
	flush := func() {
		if buf.Len() > 0 {
			segments = append(segments, bytes.NewReader(bytes.Clone(buf.Bytes())))
			buf.Reset()
		}
	}

	for _, p := range f.parts {
		if _, err := w.CreatePart(p.header()); err != nil {
			return nil, "", err
		}
		if p.reader != nil {
			flush()
			segments = append(segments, p.reader)
			continue
		}
		buf.Write(p.data)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	if len(segments) == 0 {
		return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
	}
	flush()
	return io.MultiReader(segments...), w.FormDataContentType(), nil
}

func (p formPart) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	disposition := `form-data; name="` + escapeQuotes(p.name) + `"`
	if p.fileName != "" || p.reader != nil {
		disposition += `; filename="` + escapeQuotes(p.fileName) + `"`
		ct := p.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
	} else if p.contentType != "" {
		h.Set("Content-Type", p.contentType)
	}
	h.Set("Content-Disposition", disposition)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
