package multimap

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies encoded multimap streams (ASCII: "TMM0").
	MagicNumber uint32 = 0x544D4D30
	// FormatVersion is the current wire format version (v1.0).
	FormatVersion uint32 = 0x00010000

	// headerSize is magic (4) + version (4) + flags (1).
	headerSize = 9

	flagCompressed uint8 = 1 << 0

	// maxBlobLen caps a single encoded key or value blob. A length prefix
	// beyond it is treated as corruption instead of being trusted with the
	// allocation.
	maxBlobLen = 64 << 20
	// maxCount caps the announced key count and per-key value counts.
	maxCount = 1 << 32
)

var (
	// ErrCorruptData indicates a malformed stream. A failed decode never
	// yields a partially populated multimap.
	ErrCorruptData = errors.New("corrupt data")

	// ErrInvalidMagic indicates the stream does not start with MagicNumber.
	ErrInvalidMagic = fmt.Errorf("%w: invalid magic number", ErrCorruptData)
	// ErrInvalidVersion indicates a wire format version this package cannot
	// read.
	ErrInvalidVersion = fmt.Errorf("%w: unsupported version", ErrCorruptData)
	// ErrTruncated indicates the stream ended before the announced data.
	ErrTruncated = fmt.Errorf("%w: truncated stream", ErrCorruptData)
	// ErrEmptyValueSet indicates a key announcing zero values; a decoded key
	// must always carry at least one.
	ErrEmptyValueSet = fmt.Errorf("%w: key with zero values", ErrCorruptData)

	// ErrUnknownComparator is returned by Decoder when a comparator name in
	// the stream is missing from the caller's registry. The stream itself may
	// be intact.
	ErrUnknownComparator = errors.New("unknown comparator")
)
