// Package multimap provides a comparator-ordered set-multimap for Go.
//
// A Multimap maps each distinct key to a non-empty, deduplicated, ordered set
// of values. Key order and per-key value order are both determined by
// pluggable comparators; a comparator result of 0 - not == - decides whether
// two keys share a slot or two values are the same element.
//
// # Quick Start
//
//	m := multimap.New[int, string]()
//	m.Put(3, "a")
//	m.Put(1, "b")
//	m.Put(3, "b")
//
//	for k, v := range m.Entries() {
//	    fmt.Println(k, v) // (1,b) (3,a) (3,b)
//	}
//
// Custom orderings are supplied at construction:
//
//	m, err := multimap.NewWith[string, int](
//	    func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) },
//	    multimap.Natural[int],
//	)
//
// # Views
//
// Get, KeySet and AsMap return live views backed by the multimap itself:
// reads observe the current state and writes forward to the multimap, so the
// views never drift apart. The view returned by Get for an absent key is
// empty but usable - its first Add materializes the key, and removing the
// last value through any path removes the key again. RemoveAll and
// ReplaceValues are the exceptions: they return detached snapshots.
//
// # Encoding
//
// Encoder and Decoder persist a multimap in a compact binary format. Streams
// are self-describing: they record the codec-produced key/value blobs and the
// names of both comparators, which Decoder resolves against caller-supplied
// registries. See Encoder for the format details.
//
// # Concurrency
//
// A Multimap is not safe for concurrent mutation. Concurrent readers are fine
// as long as no goroutine writes; any read concurrent with a write is
// undefined. Callers that need concurrent writes must wrap the multimap with
// their own synchronization.
//
// Comparators used with New must be consistent with equality, as described by
// the cmp package; otherwise set semantics are violated. This is a caller
// responsibility and is not enforced.
package multimap
