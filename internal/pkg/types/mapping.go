package types

import (
	"iter"
	"maps"
	"slices"
)

// Mapping is the minimal set of primitives a mutable key/value container
// exposes. The free functions in this file derive the remaining mapping
// operations from these primitives alone, so every implementation gets
// identical semantics for them.
type Mapping[K comparable, V any] interface {
	// Lookup returns the value for key, or an error wrapping ErrKeyNotFound.
	Lookup(key K) (V, error)

	// Assign stores value under key.
	Assign(key K, value V)

	// Delete removes key, or returns an error wrapping ErrKeyNotFound.
	Delete(key K) error

	// Contains reports whether key is present.
	Contains(key K) bool

	// Len returns the number of keys.
	Len() int

	// Keys iterates over every key exactly once.
	Keys() iter.Seq[K]
}

// Get returns the value for key, or def when key is absent.
//
// Errors other than absence (for example a failing resolver) are returned.
func Get[K comparable, V any](m Mapping[K, V], key K, def V) (V, error) {
	if !m.Contains(key) {
		return def, nil
	}
	return m.Lookup(key)
}

// SetDefault returns the value for key if present. Otherwise it assigns def to
// key and returns def.
func SetDefault[K comparable, V any](m Mapping[K, V], key K, def V) (V, error) {
	if m.Contains(key) {
		return m.Lookup(key)
	}

	m.Assign(key, def)
	return def, nil
}

// Pop removes key and returns its value.
func Pop[K comparable, V any](m Mapping[K, V], key K) (V, error) {
	val, err := m.Lookup(key)
	if err != nil {
		return val, err
	}

	if err := m.Delete(key); err != nil {
		var zero V
		return zero, err
	}

	return val, nil
}

// PopOr is like Pop, but returns def instead of an error when key is absent.
func PopOr[K comparable, V any](m Mapping[K, V], key K, def V) (V, error) {
	if !m.Contains(key) {
		return def, nil
	}
	return Pop[K, V](m, key)
}

// PopItem removes and returns the first key yielded by Keys along with its value.
//
// It returns a KeyError with a nil key when m is empty.
func PopItem[K comparable, V any](m Mapping[K, V]) (K, V, error) {
	for key := range m.Keys() {
		val, err := Pop[K, V](m, key)
		return key, val, err
	}

	var (
		key K
		val V
	)
	return key, val, keyNotFound(nil)
}

// Update assigns every pair produced by seq.
func Update[K comparable, V any](m Mapping[K, V], seq iter.Seq2[K, V]) {
	for k, v := range seq {
		m.Assign(k, v)
	}
}

// UpdateFrom assigns every entry of src.
func UpdateFrom[K comparable, V any](m Mapping[K, V], src map[K]V) {
	Update[K, V](m, maps.All(src))
}

// Merge assigns every entry of src into dst, looking each value up through
// src. It stops at the first lookup failure.
func Merge[K comparable, V any](dst, src Mapping[K, V]) error {
	for _, key := range slices.Collect(src.Keys()) {
		val, err := src.Lookup(key)
		if err != nil {
			return err
		}
		dst.Assign(key, val)
	}
	return nil
}

// Collect looks up every key of m and returns the result as a plain map.
func Collect[K comparable, V any](m Mapping[K, V]) (map[K]V, error) {
	keys := slices.Collect(m.Keys())

	out := make(map[K]V, len(keys))
	for _, key := range keys {
		val, err := m.Lookup(key)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}

	return out, nil
}
