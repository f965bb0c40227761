//go:build !nomiddleware

package interceptor

import (
	"context"
	"net/http"
	"testing"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/middleware"
)

func TestHeaders(t *testing.T) {
	c := newChain(t, echoHeader("X-Tenant"), Headers(http.Header{"X-Tenant": {"default"}}))

	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get("X-Echo"); got != "default" {
		t.Errorf("X-Tenant = %q", got)
	}

	resp, err = c.Get("/").Header("X-Tenant", "mine").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get("X-Echo"); got != "mine" {
		t.Errorf("caller header should win, got %q", got)
	}
}

func TestSetHeader(t *testing.T) {
	c := newChain(t, echoHeader("X-Client"), SetHeader("X-Client", "httpkit"))
	resp, err := c.Get("/").Header("X-Client", "mine").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get("X-Echo"); got != "httpkit" {
		t.Errorf("X-Client = %q", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	spy := middleware.Func(func(req *http.Request, ext *extensions.Extensions, next middleware.Next) (*http.Response, error) {
		seen, _ = RequestIDFrom(ext)
		return next.Run(req, ext)
	})
	c := newChain(t, echoHeader(DefaultRequestIDHeader), RequestID(""), spy)

	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	id := resp.Header.Get("X-Echo")
	if len(id) != 36 || seen != id {
		t.Errorf("generated id %q, extension %q", id, seen)
	}

	resp, err = c.Get("/").Header(DefaultRequestIDHeader, "given").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.Header.Get("X-Echo") != "given" || seen != "given" {
		t.Errorf("existing id should be kept, got %q / %q", resp.Header.Get("X-Echo"), seen)
	}

	resp, err = c.Get("/").WithExtension(RequestIDValue("from-ext")).Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.Header.Get("X-Echo") != "from-ext" {
		t.Errorf("extension id should be used, got %q", resp.Header.Get("X-Echo"))
	}
}

func TestRequestID_CustomHeader(t *testing.T) {
	c := newChain(t, echoHeader("X-Correlation-ID"), RequestID("X-Correlation-ID"))
	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.Header.Get("X-Echo") == "" {
		t.Error("custom header not set")
	}
}
