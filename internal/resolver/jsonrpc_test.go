package resolver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabapcia/lazydict/internal/pkg/transport/jsonrpc"
)

func TestJSONRPC(t *testing.T) {
	var lastParams []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		lastParams = req.Params

		res := map[string]any{"jsonrpc": "2.0", "id": "1"}
		switch req.Method {
		case "get_string":
			res["result"] = "value-of-" + req.Params[0].(string)
		case "get_object":
			res["result"] = map[string]any{"n": 1}
		case "get_null":
			res["result"] = nil
		case "get_nothing":
		default:
			res["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		_ = json.NewEncoder(w).Encode(res)
	}))
	defer server.Close()

	client := jsonrpc.NewClient(server.URL)

	t.Run("string results are unquoted", func(t *testing.T) {
		val, err := JSONRPC(t.Context(), client, "get_string")("k1", "extra")

		require.NoError(t, err)
		assert.Equal(t, "value-of-k1", val)
		assert.Equal(t, []any{"k1", "extra"}, lastParams)
	})

	t.Run("other results are returned as JSON", func(t *testing.T) {
		val, err := JSONRPC(t.Context(), client, "get_object")("k1")

		require.NoError(t, err)
		assert.JSONEq(t, `{"n":1}`, val)
	})

	t.Run("null results are not found", func(t *testing.T) {
		_, err := JSONRPC(t.Context(), client, "get_null")("k1")

		assert.ErrorIs(t, err, ErrValueNotFound)
	})

	t.Run("missing results are not found", func(t *testing.T) {
		_, err := JSONRPC(t.Context(), client, "get_nothing")("k1")

		assert.ErrorIs(t, err, ErrValueNotFound)
	})

	t.Run("provider errors are returned", func(t *testing.T) {
		_, err := JSONRPC(t.Context(), client, "nope")("k1")

		assert.ErrorIs(t, err, jsonrpc.ErrProviderReturnedError)
	})
}
