//go:build nomiddleware

package compat

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/httpkit/extensions"
)

// The middleware backend is compiled out. These placeholders keep the
// dispatch switches exhaustive; no value of either type is ever created.
type (
	mwClient  struct{}
	mwBuilder struct{}
)

var errNoMiddleware = errors.New("compat: built without middleware support")

func (*mwClient) Request(string, string) *mwBuilder { return &mwBuilder{} }

func (b *mwBuilder) Header(string, string) *mwBuilder    { return b }
func (b *mwBuilder) Headers(http.Header) *mwBuilder      { return b }
func (b *mwBuilder) Query(url.Values) *mwBuilder         { return b }
func (b *mwBuilder) Body(any) *mwBuilder                 { return b }
func (b *mwBuilder) Form(url.Values) *mwBuilder          { return b }
func (b *mwBuilder) BasicAuth(string, string) *mwBuilder { return b }
func (b *mwBuilder) BearerAuth(string) *mwBuilder        { return b }
func (b *mwBuilder) Timeout(time.Duration) *mwBuilder    { return b }
func (b *mwBuilder) Version(int, int) *mwBuilder         { return b }
func (b *mwBuilder) WithExtension(any) *mwBuilder        { return b }
func (b *mwBuilder) Extensions() *extensions.Extensions  { return nil }
func (b *mwBuilder) TryClone() (*mwBuilder, bool)        { return nil, false }
func (b *mwBuilder) Err() error                          { return errNoMiddleware }
func (b *mwBuilder) Build() (*http.Request, error)       { return nil, errNoMiddleware }

func mwExecute(context.Context, *mwClient, *http.Request, *extensions.Extensions) (*http.Response, error) {
	return nil, errNoMiddleware
}

func mwSend(context.Context, *mwBuilder) (*http.Response, error) {
	return nil, errNoMiddleware
}
