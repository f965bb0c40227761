//go:build !nojson

package httpclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: "https://api.example.com"})
	require.NoError(t, err)
	gock.InterceptClient(c.HTTPClient())
	t.Cleanup(func() {
		gock.RestoreClient(c.HTTPClient())
		gock.Off()
	})
	return c
}

func TestBuilder_JSON(t *testing.T) {
	c := newMockedClient(t)
	gock.New("https://api.example.com").
		Post("/items").
		MatchHeader("Content-Type", "application/json").
		JSON(map[string]any{"id": 1, "name": "widget"}).
		Reply(http.StatusCreated).
		JSON(map[string]any{"id": 1, "name": "widget"})

	resp, err := c.Post("/items").JSON(item{ID: 1, Name: "widget"}).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got item
	require.NoError(t, DecodeJSON(resp, &got))
	assert.Equal(t, item{ID: 1, Name: "widget"}, got)
	assert.True(t, gock.IsDone())
}

func TestBuilder_JSON_KeepsContentType(t *testing.T) {
	c := newMockedClient(t)
	req, err := c.Post("/items").
		Header("Content-Type", "application/merge-patch+json").
		JSON(item{ID: 2}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "application/merge-patch+json", req.Header.Get("Content-Type"))
	assert.EqualValues(t, len(`{"id":2,"name":""}`), req.ContentLength)
}

func TestBuilder_JSON_EncodeError(t *testing.T) {
	c := newMockedClient(t)
	_, err := c.Post("/items").JSON(map[string]any{"ch": make(chan int)}).Send(context.Background())
	require.Error(t, err)
	assert.True(t, IsBuilder(err))
}

func TestDecodeJSON_Malformed(t *testing.T) {
	c := newMockedClient(t)
	gock.New("https://api.example.com").
		Get("/items/1").
		Reply(http.StatusOK).
		BodyString("{not json")

	resp, err := c.Get("/items/1").Send(context.Background())
	require.NoError(t, err)

	var got item
	err = DecodeJSON(resp, &got)
	assert.True(t, IsDecode(err))
	assert.Equal(t, KindDecode, err.(*Error).Kind)
	assert.Contains(t, err.Error(), "https://api.example.com/items/1")
}

func TestClient_MockedErrorStatus(t *testing.T) {
	c := newMockedClient(t)
	gock.New("https://api.example.com").
		Get("/limited").
		Reply(http.StatusTooManyRequests)

	resp, err := c.Get("/limited").Send(context.Background())
	require.NoError(t, err)
	defer resp.Body.Close()

	statusErr := ErrorForStatus(resp)
	require.Error(t, statusErr)
	assert.True(t, IsRetryable(statusErr))
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(statusErr))
}
