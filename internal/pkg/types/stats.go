package types

// Observer receives notifications about the lifecycle of LazyMap entries.
//
// Observers are called synchronously from the goroutine operating on the map
// and must not change its contents. They are purely informational: a map
// behaves identically with or without observers attached.
type Observer interface {
	// StubRegistered is called after SetStub stores a stub for key.
	StubRegistered(key any)

	// StubResolved is called after a stub for key has been invoked. err is the
	// resolution failure, or nil when the value was materialized.
	StubResolved(key any, err error)

	// ValueAssigned is called for every concrete value stored directly, either
	// from a seed mapping or through Assign. Values produced by resolution are
	// reported through StubResolved instead.
	ValueAssigned(key any)
}

// Stats is an Observer that counts LazyMap activity.
//
// The counters only ever grow; Clear, Delete or Pop on the observed map do
// not decrement them.
type Stats struct {
	stubs     int
	resolved  int
	realItems int
}

var _ Observer = (*Stats)(nil)

// Stubs returns the number of stubs ever registered.
func (s *Stats) Stubs() int { return s.stubs }

// Resolved returns the number of stubs ever resolved successfully.
func (s *Stats) Resolved() int { return s.resolved }

// RealItems returns the number of concrete values ever assigned directly.
func (s *Stats) RealItems() int { return s.realItems }

func (s *Stats) StubRegistered(any) { s.stubs++ }

func (s *Stats) StubResolved(_ any, err error) {
	if err == nil {
		s.resolved++
	}
}

func (s *Stats) ValueAssigned(any) { s.realItems++ }

// NewDebugLazyMap creates a LazyMap seeded with the given values and wired to
// a fresh Stats, which is returned alongside it.
func NewDebugLazyMap[K comparable, V any](seed map[K]V, opts ...Option[K, V]) (*LazyMap[K, V], *Stats) {
	stats := new(Stats)
	opts = append([]Option[K, V]{WithObserver[K, V](stats)}, opts...)
	return NewLazyMapFrom(seed, opts...), stats
}
