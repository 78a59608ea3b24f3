package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/things", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("Api-Key"))
		assert.Equal(t, "api.example.test", r.Host)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x", body["name"])

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("test", Config{
		BaseURL: srv.URL + "/",
		Host:    "api.example.test",
		Headers: map[string]string{"Api-Key": "secret"},
	})

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.DoJSON(context.Background(), http.MethodPost, "/v1/things", url.Values{"limit": {"5"}}, map[string]string{"name": "x"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestClient_DoJSON_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad offer"}`))
	}))
	defer srv.Close()

	c := NewClient("ozon", Config{BaseURL: srv.URL})

	err := c.DoJSON(context.Background(), http.MethodGet, "x", nil, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus())
	assert.Equal(t, "ozon", apiErr.Platform)
	assert.Contains(t, apiErr.Body, "bad offer")
}

func TestClient_DoJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient("yandex", Config{BaseURL: srv.URL})

	var out map[string]any
	err := c.DoJSON(context.Background(), http.MethodGet, "x", nil, nil, &out)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestClient_DoJSON_CanceledContext(t *testing.T) {
	c := NewClient("ozon", Config{BaseURL: "http://127.0.0.1:1", RateLimit: 1, RateBurst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.DoJSON(ctx, http.MethodGet, "x", nil, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
