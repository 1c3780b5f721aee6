package multimap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Decoder reconstructs a multimap from a stream written by Encoder.
//
// The stream records the names of both comparators; Decoder resolves them
// against the caller-supplied registries and builds the multimap by inserting
// every value through the normal Put path, so a malformed stream carrying
// comparator-equal duplicate values is silently deduplicated, consistent with
// set semantics. Any structural problem - wrong magic, unsupported version,
// truncation, a key announcing zero values - fails the whole decode with an
// error wrapping ErrCorruptData; no partially populated multimap is returned.
type Decoder[K comparable, V comparable] struct {
	r                io.Reader
	keyCodec         Codec[K]
	valueCodec       Codec[V]
	keyComparators   *Registry[K]
	valueComparators *Registry[V]
}

// NewDecoder creates a Decoder reading from r. A nil codec falls back to
// DefaultCodec. The registries must hold every comparator name the stream
// may carry.
func NewDecoder[K comparable, V comparable](r io.Reader, keyCodec Codec[K], valueCodec Codec[V], keyComparators *Registry[K], valueComparators *Registry[V]) *Decoder[K, V] {
	if keyCodec == nil {
		keyCodec = DefaultCodec[K]()
	}
	if valueCodec == nil {
		valueCodec = DefaultCodec[V]()
	}
	return &Decoder[K, V]{
		r:                r,
		keyCodec:         keyCodec,
		valueCodec:       valueCodec,
		keyComparators:   keyComparators,
		valueComparators: valueComparators,
	}
}

// Decode reads one encoded multimap from the stream.
func (d *Decoder[K, V]) Decode() (*Multimap[K, V], error) {
	if d.keyComparators == nil || d.valueComparators == nil {
		return nil, fmt.Errorf("%w: comparator registry must not be nil", ErrInvalidArgument)
	}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(d.r, hdr[:]); err != nil {
		return nil, corrupt(err)
	}
	if magic := binary.LittleEndian.Uint32(hdr[0:4]); magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic)
	}
	if v := binary.LittleEndian.Uint32(hdr[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, v)
	}

	body := d.r
	if hdr[8]&flagCompressed != 0 {
		zr, err := zstd.NewReader(d.r)
		if err != nil {
			return nil, corrupt(err)
		}
		defer zr.Close()
		body = zr
	}
	return d.readBody(bufio.NewReader(body))
}

func (d *Decoder[K, V]) readBody(br *bufio.Reader) (*Multimap[K, V], error) {
	keyName, err := readString(br)
	if err != nil {
		return nil, err
	}
	valueName, err := readString(br)
	if err != nil {
		return nil, err
	}

	keyCmp, ok := d.keyComparators.Lookup(keyName)
	if !ok {
		return nil, fmt.Errorf("%w: key comparator %q", ErrUnknownComparator, keyName)
	}
	valueCmp, ok := d.valueComparators.Lookup(valueName)
	if !ok {
		return nil, fmt.Errorf("%w: value comparator %q", ErrUnknownComparator, valueName)
	}

	m, err := NewWith[K, V](keyCmp, valueCmp)
	if err != nil {
		return nil, err
	}

	n, err := readCount(br)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < n; i++ {
		kb, err := readBlob(br)
		if err != nil {
			return nil, err
		}
		key, err := d.keyCodec.Unmarshal(kb)
		if err != nil {
			return nil, fmt.Errorf("%w: decode key: %v", ErrCorruptData, err)
		}

		count, err := readCount(br)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrEmptyValueSet
		}
		for j := uint64(0); j < count; j++ {
			vb, err := readBlob(br)
			if err != nil {
				return nil, err
			}
			value, err := d.valueCodec.Unmarshal(vb)
			if err != nil {
				return nil, fmt.Errorf("%w: decode value: %v", ErrCorruptData, err)
			}
			if _, err := m.Put(key, value); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// readCount reads a key or value count, rejecting absurd announcements
// before any work is done on their behalf.
func readCount(br *bufio.Reader) (uint64, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return 0, corrupt(err)
	}
	if n > maxCount {
		return 0, fmt.Errorf("%w: count %d exceeds limit %d", ErrCorruptData, n, uint64(maxCount))
	}
	return n, nil
}

// readBlob reads a length-prefixed blob. The length is validated against
// maxBlobLen before allocating, so a stream announcing a huge blob fails as
// corruption rather than panicking or over-allocating.
func readBlob(br *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, corrupt(err)
	}
	if n > maxBlobLen {
		return nil, fmt.Errorf("%w: blob length %d exceeds limit %d", ErrCorruptData, n, uint64(maxBlobLen))
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(br, b); err != nil {
		return nil, corrupt(err)
	}
	return b, nil
}

func readString(br *bufio.Reader) (string, error) {
	b, err := readBlob(br)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func corrupt(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return fmt.Errorf("%w: %v", ErrCorruptData, err)
}
