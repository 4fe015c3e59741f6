// Package resolver provides ready-made resolvers for LazyMap stubs and
// decorators that add retries and tracing to any resolver.
package resolver

import (
	"errors"
	"fmt"

	"github.com/gabapcia/lazydict/internal/pkg/types"
)

var (
	// ErrValueNotFound is returned when a source has no value for the key.
	ErrValueNotFound = errors.New("value not found")

	// ErrMissingTemplate is returned by Template when the stub was registered
	// without a format string.
	ErrMissingTemplate = errors.New("missing template argument")

	// ErrUnexpectedStatus is returned by HTTP for non-2xx responses other than 404.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Identity resolves a key to itself.
func Identity(key string, _ ...any) (string, error) {
	return key, nil
}

// Template formats the key with the format string bound as the stub's first
// argument, e.g. SetStub("bob", Template, "hello %s").
func Template(key string, args ...any) (string, error) {
	if len(args) == 0 {
		return "", ErrMissingTemplate
	}

	format, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrMissingTemplate, args[0])
	}

	return fmt.Sprintf(format, key), nil
}

// Static resolves keys from a fixed table.
func Static(values map[string]string) types.Resolver[string, string] {
	return func(key string, _ ...any) (string, error) {
		val, ok := values[key]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrValueNotFound, key)
		}
		return val, nil
	}
}
