package multimap

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/emirpasic/gods/v2/trees/redblacktree"
	"github.com/emirpasic/gods/v2/utils"
)

// valueTree is the ordered set holding the values of one slot. Members are
// the tree keys; the tree value is unused.
type valueTree[V comparable] = redblacktree.Tree[V, struct{}]

// Multimap is a sorted set-multimap: each distinct key maps to a non-empty,
// deduplicated set of values, with keys and per-key values kept in
// comparator order.
//
// A key's slot is created on the first insert for that key and destroyed the
// instant its last value is removed; no slot ever holds an empty value set.
//
// Not safe for concurrent mutation. See the package documentation for the
// full concurrency contract.
type Multimap[K comparable, V comparable] struct {
	keyCmp   Comparator[K]
	valueCmp Comparator[V]
	slots    *redblacktree.Tree[K, *valueTree[V]]
	size     int // total key-value pairs
}

// New creates an empty multimap ordered by the natural ordering of its keys
// and values.
func New[K cmp.Ordered, V cmp.Ordered]() *Multimap[K, V] {
	m, err := NewWith[K, V](Natural[K], Natural[V])
	if err != nil {
		// Natural is never nil.
		panic(err)
	}
	return m
}

// NewWith creates an empty multimap using explicit comparators. Neither
// comparator may be nil; pass Natural to get natural ordering.
func NewWith[K comparable, V comparable](keyCmp Comparator[K], valueCmp Comparator[V]) (*Multimap[K, V], error) {
	if keyCmp == nil || valueCmp == nil {
		return nil, ErrNilComparator
	}
	return &Multimap[K, V]{
		keyCmp:   keyCmp,
		valueCmp: valueCmp,
		slots:    redblacktree.NewWith[K, *valueTree[V]](utils.Comparator[K](keyCmp)),
	}, nil
}

// NewFrom creates a multimap ordered by natural ordering, populated with the
// same (key, value) pairs as src. The copy is fully detached from src.
func NewFrom[K cmp.Ordered, V cmp.Ordered](src *Multimap[K, V]) *Multimap[K, V] {
	m := New[K, V]()
	for k, v := range src.Entries() {
		m.put(k, v)
	}
	return m
}

// KeyComparator returns the comparator that orders the keys. It is fixed for
// the lifetime of the multimap.
func (m *Multimap[K, V]) KeyComparator() Comparator[K] { return m.keyCmp }

// ValueComparator returns the comparator that orders the values within each
// slot. It is fixed for the lifetime of the multimap.
func (m *Multimap[K, V]) ValueComparator() Comparator[V] { return m.valueCmp }

// Put inserts the (key, value) pair. It returns true iff the pair was not
// already present; inserting a comparator-equal duplicate has no effect and
// returns false.
//
// Both operands are probed against their comparator before any mutation, so
// a comparator that rejects an operand fails with *RejectedOperandError and
// leaves the multimap untouched. When a value comparator-equal to an existing
// one is put, which of the two objects is retained is unspecified.
func (m *Multimap[K, V]) Put(key K, value V) (bool, error) {
	if err := m.probeKey(key); err != nil {
		return false, err
	}
	if err := m.probeValue(value); err != nil {
		return false, err
	}
	return m.put(key, value), nil
}

// PutAll inserts every value under key. It returns true iff at least one pair
// was added. All operands are probed before the first mutation.
func (m *Multimap[K, V]) PutAll(key K, values ...V) (bool, error) {
	if err := m.probeKey(key); err != nil {
		return false, err
	}
	for _, v := range values {
		if err := m.probeValue(v); err != nil {
			return false, err
		}
	}
	added := false
	for _, v := range values {
		if m.put(key, v) {
			added = true
		}
	}
	return added, nil
}

// PutAllFrom inserts every (key, value) pair of src, in src's entry order.
// It returns true iff at least one pair was added.
func (m *Multimap[K, V]) PutAllFrom(src *Multimap[K, V]) (bool, error) {
	if src == nil {
		return false, fmt.Errorf("%w: source multimap must not be nil", ErrInvalidArgument)
	}
	added := false
	for k, v := range src.Entries() {
		ok, err := m.Put(k, v)
		if err != nil {
			return added, err
		}
		if ok {
			added = true
		}
	}
	return added, nil
}

// put is the canonical insertion path. Operands must already be probed.
func (m *Multimap[K, V]) put(key K, value V) bool {
	set, ok := m.slots.Get(key)
	if !ok {
		// The slot is linked into the key tree only after the value is in,
		// so a comparator failure can never leave an empty slot behind.
		set = redblacktree.NewWith[V, struct{}](utils.Comparator[V](m.valueCmp))
		set.Put(value, struct{}{})
		m.slots.Put(key, set)
		m.size++
		return true
	}
	if _, dup := set.Get(value); dup {
		return false
	}
	set.Put(value, struct{}{})
	m.size++
	return true
}

// Remove removes the single (key, value) pair, if present. Removing the last
// value of a key removes the key's slot entirely.
func (m *Multimap[K, V]) Remove(key K, value V) bool {
	set, ok := m.slots.Get(key)
	if !ok {
		return false
	}
	if _, ok := set.Get(value); !ok {
		return false
	}
	set.Remove(value)
	m.size--
	if set.Empty() {
		m.slots.Remove(key)
	}
	return true
}

// RemoveAll removes the key's slot and returns its former values in value
// order. The returned slice is a detached snapshot; it is nil when the key
// was absent.
func (m *Multimap[K, V]) RemoveAll(key K) []V {
	set, ok := m.slots.Get(key)
	if !ok {
		return nil
	}
	removed := set.Keys()
	m.slots.Remove(key)
	m.size -= len(removed)
	return removed
}

// ReplaceValues removes the key's current values and inserts each value from
// values in sequence; comparator-equal duplicates collapse. It returns the
// old values as a detached snapshot, like RemoveAll.
func (m *Multimap[K, V]) ReplaceValues(key K, values []V) ([]V, error) {
	if err := m.probeKey(key); err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := m.probeValue(v); err != nil {
			return nil, err
		}
	}
	old := m.RemoveAll(key)
	for _, v := range values {
		m.put(key, v)
	}
	return old, nil
}

// Get returns a live, ordered view of the values for key. The view is usable
// even when the key is absent: its first Add materializes the slot, and
// removing its last value removes the slot again.
func (m *Multimap[K, V]) Get(key K) *ValueSet[K, V] {
	return &ValueSet[K, V]{m: m, key: key}
}

// ContainsKey reports whether any key comparator-equal to key is present.
func (m *Multimap[K, V]) ContainsKey(key K) bool {
	_, ok := m.slots.Get(key)
	return ok
}

// ContainsValue reports whether any slot holds a value comparator-equal to
// value. It scans every slot; cost is linear in the number of keys.
func (m *Multimap[K, V]) ContainsValue(value V) bool {
	it := m.slots.Iterator()
	for it.Next() {
		if _, ok := it.Value().Get(value); ok {
			return true
		}
	}
	return false
}

// ContainsEntry reports whether the (key, value) pair is present.
func (m *Multimap[K, V]) ContainsEntry(key K, value V) bool {
	set, ok := m.slots.Get(key)
	if !ok {
		return false
	}
	_, ok = set.Get(value)
	return ok
}

// Len returns the total number of (key, value) pairs.
func (m *Multimap[K, V]) Len() int { return m.size }

// KeyLen returns the number of distinct keys.
func (m *Multimap[K, V]) KeyLen() int { return m.slots.Size() }

// Empty reports whether the multimap holds no pairs.
func (m *Multimap[K, V]) Empty() bool { return m.size == 0 }

// Clear removes every pair.
func (m *Multimap[K, V]) Clear() {
	m.slots.Clear()
	m.size = 0
}

// Entries returns a lazy traversal over every (key, value) pair: keys in key
// order, and within each key, values in value order. Each range statement
// starts a fresh traversal. Mutating the multimap during a traversal is
// undefined.
func (m *Multimap[K, V]) Entries() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.slots.Iterator()
		for it.Next() {
			key := it.Key()
			vit := it.Value().Iterator()
			for vit.Next() {
				if !yield(key, vit.Key()) {
					return
				}
			}
		}
	}
}

// Keys returns a lazy traversal over the distinct keys in key order.
func (m *Multimap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := m.slots.Iterator()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Values returns a lazy traversal over every value, in entry order.
func (m *Multimap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

// KeySet returns a live, navigable view of the distinct keys.
func (m *Multimap[K, V]) KeySet() *KeySet[K, V] {
	return &KeySet[K, V]{m: m}
}

// AsMap returns a live, navigable map view from each key to its live value
// view.
func (m *Multimap[K, V]) AsMap() *MapView[K, V] {
	return &MapView[K, V]{m: m}
}

func (m *Multimap[K, V]) probeKey(key K) error {
	return probe(m.keyCmp, key, "key")
}

func (m *Multimap[K, V]) probeValue(value V) error {
	return probe(m.valueCmp, value, "value")
}

// probe invokes compare(x, x) so a comparator that cannot order x fails
// before any shared state is touched.
func probe[T any](c Comparator[T], x T, operand string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &RejectedOperandError{Operand: operand, cause: cause}
		}
	}()
	_ = c(x, x)
	return nil
}
