package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/lazydict/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/lazydict/internal/pkg/types"
)

// JSONRPC resolves a key by calling method(key, args...) on client. A string
// result is returned as is, any other result as its raw JSON text. A null or
// missing result is reported as ErrValueNotFound.
func JSONRPC(ctx context.Context, client jsonrpc.Client, method string) types.Resolver[string, string] {
	return func(key string, args ...any) (string, error) {
		params := append([]any{key}, args...)

		raw, err := client.Fetch(ctx, method, params...)
		if err != nil {
			return "", err
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return "", fmt.Errorf("%w: %s", ErrValueNotFound, key)
		}

		var val string
		if err := json.Unmarshal(raw, &val); err == nil {
			return val, nil
		}

		return string(raw), nil
	}
}
