package multimap

import "iter"

// KeySet is a live, navigable view of the distinct keys, in key-comparator
// order. Removing a key through this view removes all of its values from the
// multimap.
//
// The view is only valid while the owning multimap is.
type KeySet[K comparable, V comparable] struct {
	m *Multimap[K, V]
}

// Contains reports whether a comparator-equal key is present.
func (s *KeySet[K, V]) Contains(key K) bool {
	return s.m.ContainsKey(key)
}

// Remove removes the key and every value under it. It returns true iff the
// key was present.
func (s *KeySet[K, V]) Remove(key K) bool {
	return len(s.m.RemoveAll(key)) > 0
}

// Len returns the number of distinct keys.
func (s *KeySet[K, V]) Len() int { return s.m.KeyLen() }

// Empty reports whether the multimap holds no keys.
func (s *KeySet[K, V]) Empty() bool { return s.m.KeyLen() == 0 }

// First returns the smallest key.
func (s *KeySet[K, V]) First() (K, bool) {
	var zero K
	n := s.m.slots.Left()
	if n == nil {
		return zero, false
	}
	return n.Key, true
}

// Last returns the largest key.
func (s *KeySet[K, V]) Last() (K, bool) {
	var zero K
	n := s.m.slots.Right()
	if n == nil {
		return zero, false
	}
	return n.Key, true
}

// Floor returns the largest key that is <= key.
func (s *KeySet[K, V]) Floor(key K) (K, bool) {
	var zero K
	n, found := s.m.slots.Floor(key)
	if !found {
		return zero, false
	}
	return n.Key, true
}

// Ceiling returns the smallest key that is >= key.
func (s *KeySet[K, V]) Ceiling(key K) (K, bool) {
	var zero K
	n, found := s.m.slots.Ceiling(key)
	if !found {
		return zero, false
	}
	return n.Key, true
}

// All returns a lazy traversal over the keys in key order.
func (s *KeySet[K, V]) All() iter.Seq[K] {
	return s.m.Keys()
}

// Slice returns the keys in key order as a detached snapshot.
func (s *KeySet[K, V]) Slice() []K {
	return s.m.slots.Keys()
}
