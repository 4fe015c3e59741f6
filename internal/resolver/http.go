package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/gabapcia/lazydict/internal/pkg/types"
)

// HTTP resolves a key by fetching baseURL/key. The response body is the value.
//
// A 404 is reported as ErrValueNotFound and any other non-2xx status as
// ErrUnexpectedStatus. Transient failures are retried by client.
func HTTP(ctx context.Context, client *retryablehttp.Client, baseURL string) types.Resolver[string, string] {
	return func(key string, _ ...any) (string, error) {
		endpoint, err := url.JoinPath(baseURL, key)
		if err != nil {
			return "", err
		}

		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", err
		}

		res, err := client.Do(req)
		if err != nil {
			return "", err
		}
		defer res.Body.Close()

		switch {
		case res.StatusCode == http.StatusNotFound:
			return "", fmt.Errorf("%w: %s", ErrValueNotFound, key)
		case res.StatusCode < 200 || res.StatusCode > 299:
			return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
		}

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return "", err
		}

		return string(body), nil
	}
}
