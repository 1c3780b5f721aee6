package multimap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Encoder writes a multimap to a stream.
//
// The format is little-endian binary: a fixed header (MagicNumber,
// FormatVersion, flags), then the body - key comparator name, value
// comparator name, the number of distinct keys, and for each key in key
// order: the codec-marshalled key, the value count (always >= 1), and the
// codec-marshalled values in value order. All counts and blob lengths are
// uvarints. With WithCompression the body is zstd-compressed and the header
// flags record it, so Decoder needs no out-of-band signal.
type Encoder[K comparable, V comparable] struct {
	w          io.Writer
	keyCodec   Codec[K]
	valueCodec Codec[V]
	opts       encodeOptions
}

type encodeOptions struct {
	compress bool
	level    zstd.EncoderLevel
}

// EncodeOption configures an Encoder.
type EncodeOption func(*encodeOptions)

// WithCompression enables zstd compression of the stream body.
func WithCompression() EncodeOption {
	return func(o *encodeOptions) {
		o.compress = true
	}
}

// WithCompressionLevel enables zstd compression at the given level.
func WithCompressionLevel(level zstd.EncoderLevel) EncodeOption {
	return func(o *encodeOptions) {
		o.compress = true
		o.level = level
	}
}

// NewEncoder creates an Encoder writing to w. A nil codec falls back to
// DefaultCodec.
func NewEncoder[K comparable, V comparable](w io.Writer, keyCodec Codec[K], valueCodec Codec[V], opts ...EncodeOption) *Encoder[K, V] {
	if keyCodec == nil {
		keyCodec = DefaultCodec[K]()
	}
	if valueCodec == nil {
		valueCodec = DefaultCodec[V]()
	}
	o := encodeOptions{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder[K, V]{w: w, keyCodec: keyCodec, valueCodec: valueCodec, opts: o}
}

// Encode writes m to the stream. The comparator names are recorded as the
// stream's opaque comparator encoding; Decoder resolves them against its
// registries, so both sides must agree on the names.
func (e *Encoder[K, V]) Encode(m *Multimap[K, V], keyComparatorName, valueComparatorName string) error {
	if m == nil {
		return fmt.Errorf("%w: multimap must not be nil", ErrInvalidArgument)
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], MagicNumber)
	binary.LittleEndian.PutUint32(hdr[4:8], FormatVersion)
	if e.opts.compress {
		hdr[8] = flagCompressed
	}
	if _, err := e.w.Write(hdr[:]); err != nil {
		return err
	}

	body := e.w
	var zw *zstd.Encoder
	if e.opts.compress {
		var err error
		zw, err = zstd.NewWriter(e.w, zstd.WithEncoderLevel(e.opts.level))
		if err != nil {
			return err
		}
		body = zw
	}

	if err := e.writeBody(bufio.NewWriter(body), m, keyComparatorName, valueComparatorName); err != nil {
		return err
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}

func (e *Encoder[K, V]) writeBody(bw *bufio.Writer, m *Multimap[K, V], keyComparatorName, valueComparatorName string) error {
	if err := writeBlob(bw, []byte(keyComparatorName)); err != nil {
		return err
	}
	if err := writeBlob(bw, []byte(valueComparatorName)); err != nil {
		return err
	}
	if err := writeUvarint(bw, uint64(m.KeyLen())); err != nil {
		return err
	}

	it := m.slots.Iterator()
	for it.Next() {
		kb, err := e.keyCodec.Marshal(it.Key())
		if err != nil {
			return fmt.Errorf("marshal key: %w", err)
		}
		if err := writeBlob(bw, kb); err != nil {
			return err
		}

		set := it.Value()
		if err := writeUvarint(bw, uint64(set.Size())); err != nil {
			return err
		}
		vit := set.Iterator()
		for vit.Next() {
			vb, err := e.valueCodec.Marshal(vit.Key())
			if err != nil {
				return fmt.Errorf("marshal value: %w", err)
			}
			if err := writeBlob(bw, vb); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeUvarint(bw *bufio.Writer, x uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], x)
	_, err := bw.Write(buf[:n])
	return err
}

func writeBlob(bw *bufio.Writer, b []byte) error {
	if err := writeUvarint(bw, uint64(len(b))); err != nil {
		return err
	}
	_, err := bw.Write(b)
	return err
}
