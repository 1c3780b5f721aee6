package multimap

import "iter"

// ValueSet is a live, ordered view of the values held under one key.
//
// The view stores no values of its own: every read consults the owning
// multimap and every write forwards to its canonical mutation paths, so slot
// creation and empty-slot removal happen in exactly one place. A ValueSet
// obtained for an absent key is empty but usable; its first successful Add
// makes the key appear in the multimap.
//
// The view is only valid while the owning multimap is.
type ValueSet[K comparable, V comparable] struct {
	m   *Multimap[K, V]
	key K
}

// Key returns the key this view is bound to.
func (s *ValueSet[K, V]) Key() K { return s.key }

// Add inserts value under the view's key, materializing the slot if the key
// was absent. Semantics match Multimap.Put.
func (s *ValueSet[K, V]) Add(value V) (bool, error) {
	return s.m.Put(s.key, value)
}

// Remove removes value from the view's key. Removing the last value removes
// the key from the multimap.
func (s *ValueSet[K, V]) Remove(value V) bool {
	return s.m.Remove(s.key, value)
}

// Contains reports whether a comparator-equal value is present.
func (s *ValueSet[K, V]) Contains(value V) bool {
	return s.m.ContainsEntry(s.key, value)
}

// Len returns the number of values currently under the key.
func (s *ValueSet[K, V]) Len() int {
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return 0
	}
	return set.Size()
}

// Empty reports whether the key currently has no values.
func (s *ValueSet[K, V]) Empty() bool { return s.Len() == 0 }

// Clear removes every value under the key, and with them the key itself.
func (s *ValueSet[K, V]) Clear() {
	s.m.RemoveAll(s.key)
}

// First returns the smallest value, by value-comparator order.
func (s *ValueSet[K, V]) First() (V, bool) {
	var zero V
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return zero, false
	}
	n := set.Left()
	if n == nil {
		return zero, false
	}
	return n.Key, true
}

// Last returns the largest value, by value-comparator order.
func (s *ValueSet[K, V]) Last() (V, bool) {
	var zero V
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return zero, false
	}
	n := set.Right()
	if n == nil {
		return zero, false
	}
	return n.Key, true
}

// Floor returns the largest value that is <= value.
func (s *ValueSet[K, V]) Floor(value V) (V, bool) {
	var zero V
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return zero, false
	}
	n, found := set.Floor(value)
	if !found {
		return zero, false
	}
	return n.Key, true
}

// Ceiling returns the smallest value that is >= value.
func (s *ValueSet[K, V]) Ceiling(value V) (V, bool) {
	var zero V
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return zero, false
	}
	n, found := set.Ceiling(value)
	if !found {
		return zero, false
	}
	return n.Key, true
}

// All returns a lazy traversal over the values in value order. Each range
// statement observes the slot's state at that moment.
func (s *ValueSet[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		set, ok := s.m.slots.Get(s.key)
		if !ok {
			return
		}
		it := set.Iterator()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Slice returns the values in value order as a detached snapshot. It is nil
// when the key is absent.
func (s *ValueSet[K, V]) Slice() []V {
	set, ok := s.m.slots.Get(s.key)
	if !ok {
		return nil
	}
	return set.Keys()
}
