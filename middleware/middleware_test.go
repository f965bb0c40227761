//go:build !nomiddleware

package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/httpkit/extensions"
	"github.com/kbukum/httpkit/httpclient"
)

type tenant string

func newInner(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	return c
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range r.Header {
			if strings.HasPrefix(k, "X-") {
				w.Header()[k] = v
			}
		}
		_, _ = io.Copy(w, r.Body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func recorder(name string, log *[]string, mu *sync.Mutex) Middleware {
	return Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		mu.Lock()
		*log = append(*log, "before "+name)
		mu.Unlock()
		resp, err := next.Run(req, ext)
		mu.Lock()
		*log = append(*log, "after "+name)
		mu.Unlock()
		return resp, err
	})
}

func TestClient_ChainOrder(t *testing.T) {
	srv := echoServer(t)
	var (
		log []string
		mu  sync.Mutex
	)
	c := NewClientBuilder(newInner(t, srv.URL)).
		With(recorder("a", &log, &mu), nil, recorder("b", &log, &mu)).
		Build()

	if c.Len() != 2 {
		t.Fatalf("nil middleware should be skipped, Len = %d", c.Len())
	}
	if c.Inner() == nil || c.Inner().HTTPClient() == nil {
		t.Fatal("Inner must expose the wrapped client")
	}
	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	want := []string{"before a", "before b", "after b", "after a"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

func TestClient_MiddlewareModifiesRequest(t *testing.T) {
	srv := echoServer(t)
	inject := Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set("X-Injected", "yes")
		return next.Run(req, ext)
	})
	c := New(newInner(t, srv.URL), inject)

	resp, err := c.Post("/").Body("payload").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	body, _ := httpclient.Text(resp)
	if resp.Header.Get("X-Injected") != "yes" || body != "payload" {
		t.Errorf("header=%q body=%q", resp.Header.Get("X-Injected"), body)
	}
}

func TestClient_ExtensionsReachMiddleware(t *testing.T) {
	srv := echoServer(t)
	var seen tenant
	var seenCount int
	read := Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		seen, _ = extensions.Get[tenant](ext)
		n, _ := extensions.Get[int](ext)
		seenCount = n
		extensions.Insert(ext, time.Duration(1))
		return next.Run(req, ext)
	})
	c := NewClientBuilder(newInner(t, srv.URL)).
		With(read).
		WithInit(Extension(7), nil).
		Build()

	b := c.Get("/").WithExtension(tenant("acme"))
	resp, err := b.Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()

	if seen != "acme" || seenCount != 7 {
		t.Errorf("seen tenant=%q count=%d", seen, seenCount)
	}
	if _, ok := extensions.Get[time.Duration](b.Extensions()); !ok {
		t.Error("values written by middlewares should be visible to the caller's bag")
	}
}

func TestClient_ShortCircuit(t *testing.T) {
	cached := Func(func(req *http.Request, _ *extensions.Extensions, _ Next) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Body:       io.NopCloser(strings.NewReader("cached")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})
	// No server: the inner client must never be reached.
	c := New(newInner(t, "http://127.0.0.1:1"), cached)
	resp, err := c.Get("/").Send(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if body, _ := httpclient.Text(resp); resp.StatusCode != http.StatusTeapot || body != "cached" {
		t.Errorf("status=%d body=%q", resp.StatusCode, body)
	}
}

func TestClient_MiddlewareError(t *testing.T) {
	boom := errors.New("denied")
	deny := Func(func(*http.Request, *extensions.Extensions, Next) (*http.Response, error) {
		return nil, boom
	})
	c := New(newInner(t, "http://example.com"), deny)

	_, err := c.Get("/").Send(context.Background())
	var me *Error
	if !errors.As(err, &me) || me.Kind != KindMiddleware {
		t.Fatalf("expected middleware error, got %v", err)
	}
	if !errors.Is(err, boom) || !IsMiddleware(err) || IsTransport(err) {
		t.Errorf("classification wrong: %v", err)
	}
	if _, ok := me.Transport(); ok {
		t.Error("middleware error has no transport cause")
	}
}

func TestClient_TransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	var log []string
	var mu sync.Mutex
	c := New(newInner(t, "http://"+addr), recorder("a", &log, &mu))

	_, err = c.Get("/").Send(context.Background())
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	var me *Error
	errors.As(err, &me)
	te, ok := me.Transport()
	if !ok || te.Kind != httpclient.KindConnect {
		t.Errorf("transport cause = %v", te)
	}
	if !httpclient.IsConnect(err) {
		t.Error("httpclient helpers should see through the middleware error")
	}
}

func TestClient_WrappedTransportErrorIsMiddleware(t *testing.T) {
	ln, _ := net.Listen("tcp", "127.0.0.1:0")
	addr := ln.Addr().String()
	_ = ln.Close()

	wrap := Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		resp, err := next.Run(req, ext)
		if err != nil {
			return nil, fmt.Errorf("wrapped: %w", err)
		}
		return resp, nil
	})
	c := New(newInner(t, "http://"+addr), wrap)
	_, err := c.Get("/").Send(context.Background())
	if !IsMiddleware(err) || !httpclient.IsConnect(err) {
		t.Errorf("got %v", err)
	}
}

func TestRequestBuilder_BuildErrorIsNotTagged(t *testing.T) {
	called := false
	spy := Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		called = true
		return next.Run(req, ext)
	})
	c := New(newInner(t, ""), spy)

	_, err := c.Get("/relative").Send(context.Background())
	var he *httpclient.Error
	if !errors.As(err, &he) || he.Kind != httpclient.KindBuilder {
		t.Fatalf("expected builder error, got %v", err)
	}
	var me *Error
	if errors.As(err, &me) {
		t.Error("builder errors must not be wrapped")
	}
	if called {
		t.Error("chain must not run for an unbuildable request")
	}
}

func TestRequestBuilder_Forwarding(t *testing.T) {
	c := New(newInner(t, "http://example.com"))
	req, err := c.Put("/x").
		Header("X-A", "1").
		Headers(http.Header{"X-B": {"2"}}).
		QueryParam("q", "v").
		BasicAuth("u", "p").
		Version(1, 1).
		Timeout(time.Second).
		Body("data").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != http.MethodPut || req.URL.String() != "http://example.com/x?q=v" {
		t.Errorf("request = %s %s", req.Method, req.URL)
	}
	if req.Header.Get("X-A") != "1" || req.Header.Get("X-B") != "2" {
		t.Errorf("headers = %v", req.Header)
	}
	if d, ok := httpclient.TimeoutFromContext(req.Context()); !ok || d != time.Second {
		t.Errorf("timeout = %v %v", d, ok)
	}
}

func TestRequestBuilder_TryClone(t *testing.T) {
	c := New(newInner(t, "http://example.com"))
	b := c.Post("/").Body("x").WithExtension(tenant("acme"))

	clone, ok := b.TryClone()
	if !ok {
		t.Fatal("buffered request should clone")
	}
	if clone.Extensions().Len() != 0 {
		t.Error("extensions are not copied by TryClone")
	}
	if _, ok := c.Post("/").Body(io.NopCloser(strings.NewReader("s"))).TryClone(); ok {
		t.Error("streamed body must not clone")
	}
}

func TestClient_Execute(t *testing.T) {
	srv := echoServer(t)
	var got tenant
	read := Func(func(req *http.Request, ext *extensions.Extensions, next Next) (*http.Response, error) {
		got, _ = extensions.Get[tenant](ext)
		return next.Run(req, ext)
	})
	c := New(newInner(t, ""), read)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	ext := extensions.New()
	extensions.Insert(ext, tenant("t1"))
	resp, err := c.ExecuteWithExtensions(context.Background(), req, ext)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got != "t1" {
		t.Errorf("tenant = %q", got)
	}

	resp, err = c.Execute(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got != "" {
		t.Errorf("Execute must start with an empty bag, saw %q", got)
	}
}

func TestClient_TimeoutAppliesPerPass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New(newInner(t, srv.URL))
	_, err := c.Get("/").Timeout(50 * time.Millisecond).Send(context.Background())
	if !IsTransport(err) || !httpclient.IsTimeout(err) {
		t.Errorf("expected transport timeout, got %v", err)
	}
}

func TestErrorKind_String(t *testing.T) {
	if KindMiddleware.String() != "middleware" || KindTransport.String() != "transport" || ErrorKind(9).String() != "unknown" {
		t.Error("unexpected kind names")
	}
	e := &Error{Kind: KindMiddleware, Err: errors.New("x")}
	if e.Error() != "middleware: middleware error: x" {
		t.Errorf("Error() = %q", e.Error())
	}
}
