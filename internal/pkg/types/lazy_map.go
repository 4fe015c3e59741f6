package types

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Resolver produces the value of a stub. It receives the stub's key followed
// by the extra arguments bound when the stub was registered.
type Resolver[K comparable, V any] func(key K, args ...any) (V, error)

// thunk is a deferred call of a resolver with a pre-bound key and arguments.
//
// A nil resolver defers to the map's default resolver at invocation time.
type thunk[K comparable, V any] struct {
	resolver Resolver[K, V]
	key      K
	args     []any
}

func (t thunk[K, V]) call(fallback Resolver[K, V]) (V, error) {
	resolver := t.resolver
	if resolver == nil {
		resolver = fallback
	}

	if resolver == nil {
		var zero V
		return zero, &ResolutionError{Key: t.key, Err: ErrNoResolver}
	}

	return resolver(t.key, t.args...)
}

// config holds the optional behavior of a LazyMap.
type config[K comparable, V any] struct {
	defaultResolver Resolver[K, V]
	observers       []Observer
	restoreOnError  bool
}

// Option configures a LazyMap at construction time.
type Option[K comparable, V any] func(*config[K, V])

// WithDefaultResolver sets the resolver used by stubs registered without one.
func WithDefaultResolver[K comparable, V any](r Resolver[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.defaultResolver = r
	}
}

// WithObserver attaches an Observer. It may be given more than once.
func WithObserver[K comparable, V any](o Observer) Option[K, V] {
	return func(c *config[K, V]) {
		c.observers = append(c.observers, o)
	}
}

// WithRestoreOnError makes a failed resolution put the stub back, so a later
// lookup retries it. By default a stub whose resolver fails is discarded and
// its key becomes absent.
//
// The stub is only restored if the key was not claimed by an assignment or a
// new stub while the resolver was running.
func WithRestoreOnError[K comparable, V any]() Option[K, V] {
	return func(c *config[K, V]) {
		c.restoreOnError = true
	}
}

// LazyMap is a map whose entries are either materialized values or stubs:
// deferred computations that run the first time their key is looked up.
//
// A key is never held as both a value and a stub, and Len counts both kinds.
// Once a stub is resolved its value is cached and the resolver is never run
// again for that stub.
//
// Iteration order is deterministic: materialized keys in insertion order,
// then stub keys in registration order. Resolving a stub moves its key to the
// end of the materialized keys.
//
// LazyMap is not safe for concurrent use. Resolvers run inline on the calling
// goroutine and may call back into the map; while a stub is being resolved its
// key is absent from the map.
//
// Use NewLazyMap, NewLazyMapFrom or NewLazyMapFromSeq to create one.
type LazyMap[K comparable, V any] struct {
	materialized *orderedStore[K, V]
	stubs        *orderedStore[K, thunk[K, V]]
	cfg          config[K, V]
}

var _ Mapping[string, any] = (*LazyMap[string, any])(nil)

// NewLazyMap creates an empty LazyMap.
func NewLazyMap[K comparable, V any](opts ...Option[K, V]) *LazyMap[K, V] {
	var cfg config[K, V]
	for _, opt := range opts {
		opt(&cfg)
	}

	return &LazyMap[K, V]{
		materialized: newOrderedStore[K, V](),
		stubs:        newOrderedStore[K, thunk[K, V]](),
		cfg:          cfg,
	}
}

// NewLazyMapFrom creates a LazyMap holding the entries of seed as materialized
// values. seed itself is not retained.
func NewLazyMapFrom[K comparable, V any](seed map[K]V, opts ...Option[K, V]) *LazyMap[K, V] {
	return NewLazyMapFromSeq(maps.All(seed), opts...)
}

// NewLazyMapFromSeq creates a LazyMap from key/value pairs. Later pairs win
// over earlier ones with the same key.
func NewLazyMapFromSeq[K comparable, V any](seq iter.Seq2[K, V], opts ...Option[K, V]) *LazyMap[K, V] {
	m := NewLazyMap(opts...)
	for k, v := range seq {
		m.Assign(k, v)
	}
	return m
}

// SetStub registers a stub for key. When key is first looked up, the map calls
// resolver(key, args...), or the default resolver if resolver is nil.
//
// A materialized value already stored under key is dropped. SetStub never
// fails: a missing resolver is only reported when the stub is resolved.
func (m *LazyMap[K, V]) SetStub(key K, resolver Resolver[K, V], args ...any) {
	m.materialized.remove(key)
	m.stubs.set(key, thunk[K, V]{resolver: resolver, key: key, args: args})

	for _, o := range m.cfg.observers {
		o.StubRegistered(key)
	}
}

// SetDefaultResolver replaces the fallback resolver. It affects every pending
// stub that was registered without an explicit resolver.
func (m *LazyMap[K, V]) SetDefaultResolver(resolver Resolver[K, V]) {
	m.cfg.defaultResolver = resolver
}

// Lookup returns the value stored under key, resolving its stub first if needed.
//
// It returns a *KeyError if key is absent. If the resolver fails its error is
// returned unchanged.
func (m *LazyMap[K, V]) Lookup(key K) (V, error) {
	if val, ok := m.materialized.get(key); ok {
		return val, nil
	}

	t, ok := m.stubs.remove(key)
	if !ok {
		var zero V
		return zero, keyNotFound(key)
	}

	return m.resolve(key, t)
}

// resolve invokes a stub that was already removed from the stub store and
// materializes its value.
func (m *LazyMap[K, V]) resolve(key K, t thunk[K, V]) (V, error) {
	val, err := t.call(m.cfg.defaultResolver)

	for _, o := range m.cfg.observers {
		o.StubResolved(key, err)
	}

	if err != nil {
		if m.cfg.restoreOnError && !m.Contains(key) {
			m.stubs.set(key, t)
		}

		var zero V
		return zero, err
	}

	m.store(key, val)
	return val, nil
}

// store materializes val under key, dropping any pending stub for key.
func (m *LazyMap[K, V]) store(key K, val V) {
	m.stubs.remove(key)
	m.materialized.set(key, val)
}

// Assign stores value under key, replacing any value or pending stub. A
// replaced stub is never resolved.
func (m *LazyMap[K, V]) Assign(key K, value V) {
	m.store(key, value)

	for _, o := range m.cfg.observers {
		o.ValueAssigned(key)
	}
}

// Delete removes key. A pending stub is discarded without being resolved.
func (m *LazyMap[K, V]) Delete(key K) error {
	if _, ok := m.stubs.remove(key); ok {
		return nil
	}

	if _, ok := m.materialized.remove(key); ok {
		return nil
	}

	return keyNotFound(key)
}

// Contains reports whether key holds a value or a pending stub.
func (m *LazyMap[K, V]) Contains(key K) bool {
	return m.materialized.has(key) || m.stubs.has(key)
}

// IsStub reports whether key holds a pending stub.
func (m *LazyMap[K, V]) IsStub(key K) bool {
	return m.stubs.has(key)
}

// Len returns the number of materialized values plus pending stubs.
func (m *LazyMap[K, V]) Len() int {
	return m.materialized.len() + m.stubs.len()
}

// Pending returns the number of stubs not resolved yet.
func (m *LazyMap[K, V]) Pending() int {
	return m.stubs.len()
}

// Clear removes every entry. No stub is resolved.
func (m *LazyMap[K, V]) Clear() {
	m.materialized.clear()
	m.stubs.clear()
}

// ResolveAll resolves pending stubs one at a time until none remain. Stubs
// registered by resolvers while it runs are resolved too, so a resolver that
// keeps registering stubs keeps ResolveAll running.
//
// It stops at the first failing resolver and returns its error; stubs not
// reached yet stay pending.
func (m *LazyMap[K, V]) ResolveAll() error {
	for {
		key, t, ok := m.stubs.popFront()
		if !ok {
			return nil
		}

		if _, err := m.resolve(key, t); err != nil {
			return err
		}
	}
}

// Keys iterates over every key, materialized or not. It never resolves stubs.
//
// The keys are captured when iteration starts and each is yielded at most
// once, even if it moves between values and stubs during the loop. Keys
// removed before being reached are skipped; keys added during the loop are not
// yielded.
func (m *LazyMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		keys := make([]K, 0, m.Len())
		for k := range m.materialized.all() {
			keys = append(keys, k)
		}
		for k := range m.stubs.all() {
			keys = append(keys, k)
		}

		for _, k := range keys {
			if !m.Contains(k) {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// Items resolves every pending stub and then returns a sequence over the
// materialized entries.
func (m *LazyMap[K, V]) Items() (iter.Seq2[K, V], error) {
	if err := m.ResolveAll(); err != nil {
		return nil, err
	}
	return m.materialized.all(), nil
}

// Values resolves every pending stub and then returns a sequence over the
// materialized values.
func (m *LazyMap[K, V]) Values() (iter.Seq[V], error) {
	items, err := m.Items()
	if err != nil {
		return nil, err
	}

	return func(yield func(V) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}, nil
}

// ToMap resolves every pending stub and returns the contents as a new plain map.
func (m *LazyMap[K, V]) ToMap() (map[K]V, error) {
	items, err := m.Items()
	if err != nil {
		return nil, err
	}
	return maps.Collect(items), nil
}

// Copy returns a new LazyMap with the same values and the same pending stubs.
//
// Stubs are shared, not re-run: resolving a key in one map leaves the other
// map's stub for that key pending. The copy keeps the default resolver and
// reports to the same observers.
func (m *LazyMap[K, V]) Copy() *LazyMap[K, V] {
	cfg := m.cfg
	cfg.observers = append([]Observer(nil), m.cfg.observers...)

	return &LazyMap[K, V]{
		materialized: m.materialized.clone(),
		stubs:        m.stubs.clone(),
		cfg:          cfg,
	}
}

// Get returns the value for key, or def if key is absent.
func (m *LazyMap[K, V]) Get(key K, def V) (V, error) {
	return Get[K, V](m, key, def)
}

// SetDefault returns the value for key, assigning def first if key is absent.
func (m *LazyMap[K, V]) SetDefault(key K, def V) (V, error) {
	return SetDefault[K, V](m, key, def)
}

// Pop removes key and returns its value, resolving it first if it is a stub.
func (m *LazyMap[K, V]) Pop(key K) (V, error) {
	return Pop[K, V](m, key)
}

// PopOr is like Pop but returns def if key is absent.
func (m *LazyMap[K, V]) PopOr(key K, def V) (V, error) {
	return PopOr[K, V](m, key, def)
}

// PopItem removes and returns one entry, resolving it first if it is a stub.
// Materialized entries are popped before stubs.
func (m *LazyMap[K, V]) PopItem() (K, V, error) {
	return PopItem[K, V](m)
}

// Update assigns every pair of seq.
func (m *LazyMap[K, V]) Update(seq iter.Seq2[K, V]) {
	Update[K, V](m, seq)
}

// UpdateFrom assigns every entry of src.
func (m *LazyMap[K, V]) UpdateFrom(src map[K]V) {
	UpdateFrom[K, V](m, src)
}

// Merge assigns every entry of src, resolving src's stubs along the way.
func (m *LazyMap[K, V]) Merge(src Mapping[K, V]) error {
	return Merge[K, V](m, src)
}

// String renders the map without resolving anything. Stubs are shown as <stub>.
func (m *LazyMap[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("LazyMap{")

	sep := ""
	for k, v := range m.materialized.all() {
		fmt.Fprintf(&sb, "%s%v: %v", sep, k, v)
		sep = ", "
	}
	for k := range m.stubs.all() {
		fmt.Fprintf(&sb, "%s%v: <stub>", sep, k)
		sep = ", "
	}

	sb.WriteString("}")
	return sb.String()
}
