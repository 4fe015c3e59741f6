package types

import "iter"

// orderedNode is a single entry of an orderedStore.
type orderedNode[K comparable, V any] struct {
	key        K
	val        V
	prev, next *orderedNode[K, V]
	removed    bool
}

// orderedStore is a map that remembers insertion order.
//
// Lookups, inserts and removals are O(1). Iteration yields keys in the order
// they were first inserted; overwriting a key keeps its position.
type orderedStore[K comparable, V any] struct {
	index      map[K]*orderedNode[K, V]
	head, tail *orderedNode[K, V]
}

func newOrderedStore[K comparable, V any]() *orderedStore[K, V] {
	return &orderedStore[K, V]{index: make(map[K]*orderedNode[K, V])}
}

func (s *orderedStore[K, V]) len() int {
	return len(s.index)
}

func (s *orderedStore[K, V]) has(key K) bool {
	_, ok := s.index[key]
	return ok
}

func (s *orderedStore[K, V]) get(key K) (V, bool) {
	n, ok := s.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.val, true
}

// set inserts key at the back, or updates it in place if already present.
func (s *orderedStore[K, V]) set(key K, val V) {
	if n, ok := s.index[key]; ok {
		n.val = val
		return
	}

	n := &orderedNode[K, V]{key: key, val: val, prev: s.tail}
	if s.tail != nil {
		s.tail.next = n
	} else {
		s.head = n
	}
	s.tail = n
	s.index[key] = n
}

// remove unlinks key and returns its value.
//
// The removed node keeps its next pointer so that an iterator parked on it
// can still advance.
func (s *orderedStore[K, V]) remove(key K) (V, bool) {
	n, ok := s.index[key]
	if !ok {
		var zero V
		return zero, false
	}

	delete(s.index, key)
	n.removed = true

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}

	return n.val, true
}

// popFront removes and returns the oldest entry.
func (s *orderedStore[K, V]) popFront() (K, V, bool) {
	if s.head == nil {
		var (
			k K
			v V
		)
		return k, v, false
	}

	n := s.head
	s.remove(n.key)
	return n.key, n.val, true
}

func (s *orderedStore[K, V]) clear() {
	for n := s.head; n != nil; n = n.next {
		n.removed = true
	}
	s.index = make(map[K]*orderedNode[K, V])
	s.head, s.tail = nil, nil
}

// clone returns an independent store holding the same entries in the same order.
func (s *orderedStore[K, V]) clone() *orderedStore[K, V] {
	c := newOrderedStore[K, V]()
	for n := s.head; n != nil; n = n.next {
		c.set(n.key, n.val)
	}
	return c
}

// all iterates over live entries in insertion order. Entries removed while
// iterating are skipped if not yet reached.
func (s *orderedStore[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := s.head; n != nil; n = n.next {
			if n.removed {
				continue
			}
			if !yield(n.key, n.val) {
				return
			}
		}
	}
}
