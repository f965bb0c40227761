package compat

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/internal/json"
)

type echoReply struct {
	Method    string `json:"method"`
	Query     string `json:"query"`
	Header    string `json:"header"`
	Injected  string `json:"injected"`
	RequestID string `json:"request_id"`
	Body      string `json:"body"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

// echoServer replies to /echo with a description of the request, to /proto
// with the protocol it was reached over and to /status/:code with an empty
// body and that status, reporting X-Injected back as X-Seen-Injected. It
// accepts cleartext HTTP/2.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.Any("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusOK, echoReply{
			Method:    c.Request.Method,
			Query:     c.Request.URL.RawQuery,
			Header:    c.GetHeader("X-Test"),
			Injected:  c.GetHeader("X-Injected"),
			RequestID: c.GetHeader("X-Request-ID"),
			Body:      string(body),
		})
	})
	r.GET("/auth", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetHeader("Authorization"))
	})
	r.GET("/status/:code", func(c *gin.Context) {
		c.Header("X-Seen-Injected", c.GetHeader("X-Injected"))
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(code)
	})
	r.GET("/proto", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Proto)
	})
	srv := httptest.NewUnstartedServer(r)
	var protocols http.Protocols
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)
	srv.Config.Protocols = &protocols
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func newPlain(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func decodeEcho(t *testing.T, resp *http.Response) echoReply {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out echoReply
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
