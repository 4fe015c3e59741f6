package jsonrpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transporthttp "github.com/gabapcia/lazydict/internal/pkg/transport/http"
)

func TestResponse_Err(t *testing.T) {
	t.Run("returns nil when Error field is nil", func(t *testing.T) {
		resp := response{JsonRPC: "2.0"}

		assert.NoError(t, resp.Err())
	})

	t.Run("returns formatted error when Error field is present", func(t *testing.T) {
		resp := response{
			JsonRPC: "2.0",
			Error: &struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}{
				Code:    -32601,
				Message: "method not found",
			},
		}

		err := resp.Err()

		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Contains(t, err.Error(), fmt.Sprintf("[%d]", -32601))
		assert.Contains(t, err.Error(), "method not found")
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("sends a JSON-RPC 2.0 request and returns the result", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"result":  "resolved-value",
				"id":      received["id"],
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		result, err := c.Fetch(t.Context(), "lazydict_resolve", "user:1")
		require.NoError(t, err)

		var actual string
		require.NoError(t, json.Unmarshal(result, &actual))
		assert.Equal(t, "resolved-value", actual)

		assert.Equal(t, "2.0", received["jsonrpc"])
		assert.Equal(t, "lazydict_resolve", received["method"])
		assert.Equal(t, []any{"user:1"}, received["params"])
		_, err = uuid.Parse(received["id"].(string))
		assert.NoError(t, err, "request id should be a UUID")
	})

	t.Run("sends an empty params array when none are given", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": nil})
		}))
		defer server.Close()

		_, err := NewClient(server.URL).Fetch(t.Context(), "ping")

		require.NoError(t, err)
		assert.Equal(t, []any{}, received["params"])
	})

	t.Run("response with JSON-RPC error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    -32601,
					"message": "method not found",
				},
				"id": "1",
			})
		}))
		defer server.Close()

		result, err := NewClient(server.URL).Fetch(t.Context(), "nonexistent_method")

		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("this is not json"))
		}))
		defer server.Close()

		result, err := NewClient(server.URL).Fetch(t.Context(), "bad_json")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("network error when server is down", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		c := NewClient(server.URL,
			transporthttp.WithTimeout(1*time.Second),
			transporthttp.WithRetryMax(0),
		)

		result, err := c.Fetch(t.Context(), "network_failure")

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		c := NewClient("http://localhost:8080")

		assert.Equal(t, "http://localhost:8080", c.providerEndpoint)
		require.NotNil(t, c.httpClient)
		assert.Equal(t, 5*time.Second, c.httpClient.HTTPClient.Timeout)
		assert.Equal(t, 2, c.httpClient.RetryMax)
	})

	t.Run("forwards options to the HTTP client", func(t *testing.T) {
		c := NewClient(
			"http://localhost:8080",
			transporthttp.WithTimeout(9*time.Second),
			transporthttp.WithRetryWaitMin(111*time.Millisecond),
			transporthttp.WithRetryWaitMax(3*time.Second),
			transporthttp.WithRetryMax(7),
		)

		assert.Equal(t, 9*time.Second, c.httpClient.HTTPClient.Timeout)
		assert.Equal(t, 111*time.Millisecond, c.httpClient.RetryWaitMin)
		assert.Equal(t, 3*time.Second, c.httpClient.RetryWaitMax)
		assert.Equal(t, 7, c.httpClient.RetryMax)
	})
}
