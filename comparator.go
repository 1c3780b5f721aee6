package multimap

import "cmp"

// Comparator defines a total order over T.
//
// It returns a negative number when x sorts before y, a positive number when
// x sorts after y, and 0 when the two are equivalent. Throughout this package
// a result of 0 is the only notion of equality: two distinct objects that
// compare to 0 occupy the same slot.
type Comparator[T any] func(x, y T) int

// NaturalName is the registry name under which Natural is conventionally
// registered. Encoders record it for multimaps built with New.
const NaturalName = "natural"

// Natural orders values by the built-in ordering of T.
func Natural[T cmp.Ordered](x, y T) int {
	return cmp.Compare(x, y)
}

// Reverse returns a comparator with the opposite order of c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(x, y T) int {
		return c(y, x)
	}
}

// Registry maps stable names to comparators.
//
// Comparators are functions and cannot travel inside an encoded stream; the
// stream records a name instead, and Decoder resolves it against a registry.
// This mirrors how persisted files are self-describing: the name is validated
// on load rather than trusted blindly.
type Registry[T any] struct {
	byName map[string]Comparator[T]
}

// NewRegistry creates an empty comparator registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]Comparator[T])}
}

// NaturalRegistry creates a registry pre-populated with Natural under
// NaturalName.
func NaturalRegistry[T cmp.Ordered]() *Registry[T] {
	r := NewRegistry[T]()
	r.Register(NaturalName, Natural[T])
	return r
}

// Register adds or replaces the comparator stored under name.
func (r *Registry[T]) Register(name string, c Comparator[T]) {
	r.byName[name] = c
}

// Lookup returns the comparator registered under name.
func (r *Registry[T]) Lookup(name string) (Comparator[T], bool) {
	c, ok := r.byName[name]
	return c, ok
}
