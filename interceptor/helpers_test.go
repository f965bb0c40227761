//go:build !nomiddleware

package interceptor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/middleware"
)

// newChain starts srv and returns a middleware client in front of it.
func newChain(t *testing.T, h http.HandlerFunc, mw ...middleware.Middleware) *middleware.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	inner, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	return middleware.New(inner, mw...)
}

// echoHeader replies with the value of the named request header in X-Echo.
func echoHeader(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo", r.Header.Get(name))
	}
}
