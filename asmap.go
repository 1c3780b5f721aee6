package multimap

import "iter"

// MapView is a live, navigable view of the multimap as a map from each key to
// its live value view, in key-comparator order.
//
// The view is only valid while the owning multimap is.
type MapView[K comparable, V comparable] struct {
	m *Multimap[K, V]
}

// Get returns the live value view for key, or false when the key is absent.
// Unlike Multimap.Get it never hands out a view for an absent key.
func (mv *MapView[K, V]) Get(key K) (*ValueSet[K, V], bool) {
	if !mv.m.ContainsKey(key) {
		return nil, false
	}
	return mv.m.Get(key), true
}

// Contains reports whether a comparator-equal key is present.
func (mv *MapView[K, V]) Contains(key K) bool {
	return mv.m.ContainsKey(key)
}

// Remove removes the key and returns its former values as a detached
// snapshot, like Multimap.RemoveAll.
func (mv *MapView[K, V]) Remove(key K) []V {
	return mv.m.RemoveAll(key)
}

// Len returns the number of distinct keys.
func (mv *MapView[K, V]) Len() int { return mv.m.KeyLen() }

// Empty reports whether the multimap holds no keys.
func (mv *MapView[K, V]) Empty() bool { return mv.m.KeyLen() == 0 }

// First returns the smallest key and its live value view.
func (mv *MapView[K, V]) First() (K, *ValueSet[K, V], bool) {
	var zero K
	n := mv.m.slots.Left()
	if n == nil {
		return zero, nil, false
	}
	return n.Key, mv.m.Get(n.Key), true
}

// Last returns the largest key and its live value view.
func (mv *MapView[K, V]) Last() (K, *ValueSet[K, V], bool) {
	var zero K
	n := mv.m.slots.Right()
	if n == nil {
		return zero, nil, false
	}
	return n.Key, mv.m.Get(n.Key), true
}

// All returns a lazy traversal over (key, value view) pairs in key order.
func (mv *MapView[K, V]) All() iter.Seq2[K, *ValueSet[K, V]] {
	return func(yield func(K, *ValueSet[K, V]) bool) {
		it := mv.m.slots.Iterator()
		for it.Next() {
			if !yield(it.Key(), mv.m.Get(it.Key())) {
				return
			}
		}
	}
}
