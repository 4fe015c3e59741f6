package types

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is the sentinel wrapped by every KeyError.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNoResolver is returned when a stub is resolved but neither an explicit
	// resolver nor a default resolver is available.
	ErrNoResolver = errors.New("no resolver available")
)

// KeyError reports an operation on a key that holds neither a value nor a stub.
//
// It matches ErrKeyNotFound with errors.Is and exposes the offending key.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %v", ErrKeyNotFound, e.Key)
}

func (e *KeyError) Unwrap() error {
	return ErrKeyNotFound
}

// ResolutionError reports a stub that could not be invoked at all.
//
// Failures returned by the resolver itself are never wrapped in a
// ResolutionError; they reach the caller unchanged.
type ResolutionError struct {
	Key any
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %v: %s", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func keyNotFound(key any) error {
	return &KeyError{Key: key}
}
