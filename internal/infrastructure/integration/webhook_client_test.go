package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookClient_Call(t *testing.T) {
	var gotMethod, gotHeader, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Signature")
		gotContentType = r.Header.Get("Content-Type")
		gotBody = nil
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &gotBody)
		}
		switch r.URL.Path {
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		case "/fail":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer server.Close()

	client := NewWebhookClient(config.WebhookConfig{MaxResponseBytes: 16}, nil)
	ctx := context.Background()

	t.Run("posts JSON payload with headers", func(t *testing.T) {
		resp, err := client.Call(ctx, domain.WebhookRequest{
			URL:     server.URL + "/hook",
			Headers: map[string]string{"X-Signature": "abc"},
			Payload: map[string]any{"entityType": "LEAD"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "abc", gotHeader)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "LEAD", gotBody["entityType"])
		assert.Equal(t, 200, resp.HTTPStatus)
		assert.True(t, resp.Successful())
		assert.Equal(t, `{"ok":true}`, resp.Body)
		assert.False(t, resp.Truncated)
	})

	t.Run("GET sends no body", func(t *testing.T) {
		_, err := client.Call(ctx, domain.WebhookRequest{URL: server.URL, Method: "get", Payload: map[string]any{"a": 1}})
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Nil(t, gotBody)
	})

	t.Run("truncates large responses", func(t *testing.T) {
		resp, err := client.Call(ctx, domain.WebhookRequest{URL: server.URL + "/big", Method: "PUT"})
		require.NoError(t, err)
		assert.Len(t, resp.Body, 16)
		assert.True(t, resp.Truncated)
	})

	t.Run("non-2xx is returned, not an error", func(t *testing.T) {
		resp, err := client.Call(ctx, domain.WebhookRequest{URL: server.URL + "/fail"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.HTTPStatus)
		assert.False(t, resp.Successful())
	})

	t.Run("rejects unsupported method", func(t *testing.T) {
		_, err := client.Call(ctx, domain.WebhookRequest{URL: server.URL, Method: "DELETE"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
	})

	t.Run("rejects non-http url", func(t *testing.T) {
		_, err := client.Call(ctx, domain.WebhookRequest{URL: "ftp://example.com"})
		assert.ErrorIs(t, err, domain.ErrInvalidWebhookURL)
	})

	t.Run("transport failure", func(t *testing.T) {
		closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := closed.URL
		closed.Close()
		_, err := client.Call(ctx, domain.WebhookRequest{URL: url})
		assert.ErrorIs(t, err, domain.ErrWebhookRequestFailed)
	})
}

func TestNewWebhookClient_Defaults(t *testing.T) {
	c := NewWebhookClient(config.WebhookConfig{}, nil)
	assert.Equal(t, defaultWebhookTimeout, c.httpClient.Timeout)
	assert.Equal(t, int64(defaultMaxResponseBytes), c.maxResponseBytes)

	c = NewWebhookClient(config.WebhookConfig{Timeout: time.Second, MaxResponseBytes: 10}, nil)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, int64(10), c.maxResponseBytes)
}
