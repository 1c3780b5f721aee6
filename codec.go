package multimap

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// Codec marshals keys or values for the wire format.
//
// Codec selection is a breaking-change boundary: streams written with one
// codec may not decode with another. Streams do not record codec names; the
// caller supplies matching codecs on both sides.
type Codec[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
	Name() string
}

// JSON is the standard-library JSON codec.
type JSON[T any] struct{}

// Marshal encodes the value to JSON.
func (JSON[T]) Marshal(v T) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data.
func (JSON[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// Name returns the unique name of the codec ("json").
func (JSON[T]) Name() string { return "json" }

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON[T any] struct{}

// Marshal encodes the value to JSON.
func (GoJSON[T]) Marshal(v T) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data.
func (GoJSON[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := gojson.Unmarshal(data, &v)
	return v, err
}

// Name returns the unique name of the codec ("go-json").
func (GoJSON[T]) Name() string { return "go-json" }

// CodecByName returns a built-in codec by its stable name.
func CodecByName[T any](name string) (Codec[T], bool) {
	switch name {
	case "json":
		return JSON[T]{}, true
	case "go-json":
		return GoJSON[T]{}, true
	default:
		return nil, false
	}
}

// DefaultCodec returns the codec used when none is supplied.
func DefaultCodec[T any]() Codec[T] { return GoJSON[T]{} }
