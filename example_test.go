package multimap_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hupe1980/multimap"
)

func Example() {
	m := multimap.New[int, string]()
	m.Put(3, "a")
	m.Put(1, "b")
	m.Put(3, "b")
	m.Put(1, "b") // duplicate, no effect

	for k, v := range m.Entries() {
		fmt.Println(k, v)
	}
	// Output:
	// 1 b
	// 3 a
	// 3 b
}

func ExampleNewWith() {
	// Case-insensitive keys: comparator equivalence, not string equality,
	// decides which keys share a slot.
	fold := func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
	m, _ := multimap.NewWith[string, int](fold, multimap.Natural[int])

	m.Put("Go", 1)
	m.Put("GO", 2)
	m.Put("go", 1)

	fmt.Println(m.KeyLen(), m.Len())
	// Output:
	// 1 2
}

func ExampleMultimap_Get() {
	m := multimap.New[string, int]()

	// The view for an absent key is live: its first Add creates the key.
	view := m.Get("primes")
	view.Add(5)
	view.Add(2)
	view.Add(3)

	fmt.Println(m.ContainsKey("primes"), view.Slice())

	// Removing the last values removes the key again.
	view.Clear()
	fmt.Println(m.ContainsKey("primes"))
	// Output:
	// true [2 3 5]
	// false
}

func ExampleEncoder() {
	m := multimap.New[int, string]()
	m.Put(1, "x")
	m.Put(2, "y")

	var buf bytes.Buffer
	enc := multimap.NewEncoder[int, string](&buf, nil, nil)
	if err := enc.Encode(m, multimap.NaturalName, multimap.NaturalName); err != nil {
		panic(err)
	}

	dec := multimap.NewDecoder[int, string](&buf, nil, nil,
		multimap.NaturalRegistry[int](), multimap.NaturalRegistry[string]())
	got, err := dec.Decode()
	if err != nil {
		panic(err)
	}

	for k, v := range got.Entries() {
		fmt.Println(k, v)
	}
	// Output:
	// 1 x
	// 2 y
}
