package multimap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMultimap(t *testing.T) *Multimap[int, string] {
	t.Helper()
	m := New[int, string]()
	for _, p := range []struct {
		k int
		v string
	}{
		{3, "a"}, {1, "b"}, {3, "b"}, {2, "zz"}, {2, "aa"},
	} {
		_, err := m.Put(p.k, p.v)
		require.NoError(t, err)
	}
	return m
}

func testDecoder(r *bytes.Buffer) *Decoder[int, string] {
	return NewDecoder[int, string](r, nil, nil, NaturalRegistry[int](), NaturalRegistry[string]())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	enc := NewEncoder[int, string](&buf, nil, nil)
	require.NoError(t, enc.Encode(m, NaturalName, NaturalName))

	got, err := testDecoder(&buf).Decode()
	require.NoError(t, err)

	assert.Equal(t, collect(m), collect(got))
	assert.Equal(t, m.Len(), got.Len())
	assert.Equal(t, m.KeyLen(), got.KeyLen())
}

func TestEncodeDecode_Compressed(t *testing.T) {
	m := testMultimap(t)

	var plain, packed bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&plain, nil, nil).Encode(m, NaturalName, NaturalName))
	require.NoError(t, NewEncoder[int, string](&packed, nil, nil, WithCompression()).Encode(m, NaturalName, NaturalName))

	assert.NotEqual(t, plain.Bytes(), packed.Bytes())

	got, err := testDecoder(&packed).Decode()
	require.NoError(t, err)
	assert.Equal(t, collect(m), collect(got))
}

func TestEncodeDecode_JSONCodec(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	enc := NewEncoder[int, string](&buf, JSON[int]{}, JSON[string]{})
	require.NoError(t, enc.Encode(m, NaturalName, NaturalName))

	dec := NewDecoder[int, string](&buf, JSON[int]{}, JSON[string]{}, NaturalRegistry[int](), NaturalRegistry[string]())
	got, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, collect(m), collect(got))
}

func TestEncode_EmptyMultimap(t *testing.T) {
	m := New[int, string]()

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, NaturalName, NaturalName))

	got, err := testDecoder(&buf).Decode()
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestEncode_NilMultimap(t *testing.T) {
	var buf bytes.Buffer
	err := NewEncoder[int, string](&buf, nil, nil).Encode(nil, NaturalName, NaturalName)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDecode_InvalidMagic(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, NaturalName, NaturalName))
	data := buf.Bytes()
	data[0] ^= 0xFF

	_, err := testDecoder(bytes.NewBuffer(data)).Decode()
	require.ErrorIs(t, err, ErrInvalidMagic)
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecode_InvalidVersion(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, NaturalName, NaturalName))
	data := buf.Bytes()
	data[4] ^= 0xFF

	_, err := testDecoder(bytes.NewBuffer(data)).Decode()
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestDecode_Truncated(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, NaturalName, NaturalName))
	data := buf.Bytes()

	for _, cut := range []int{0, 5, headerSize, headerSize + 3, len(data) - 1} {
		_, err := testDecoder(bytes.NewBuffer(data[:cut])).Decode()
		require.ErrorIs(t, err, ErrCorruptData, "cut at %d", cut)
	}
}

func TestDecode_UnknownComparator(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, "bespoke", NaturalName))

	_, err := testDecoder(&buf).Decode()
	require.ErrorIs(t, err, ErrUnknownComparator)
	assert.NotErrorIs(t, err, ErrCorruptData)
}

// appendBlob and appendUvarint hand-craft stream bodies for malformed-input
// tests.
func appendUvarint(b []byte, x uint64) []byte {
	return binary.AppendUvarint(b, x)
}

func appendBlob(b, blob []byte) []byte {
	b = appendUvarint(b, uint64(len(blob)))
	return append(b, blob...)
}

func craftStream(t *testing.T, body []byte) []byte {
	t.Helper()
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], MagicNumber)
	binary.LittleEndian.PutUint32(hdr[4:8], FormatVersion)
	return append(hdr[:], body...)
}

func TestDecode_ZeroValueCount(t *testing.T) {
	var body []byte
	body = appendBlob(body, []byte(NaturalName)) // key comparator
	body = appendBlob(body, []byte(NaturalName)) // value comparator
	body = appendUvarint(body, 1)                // one key
	body = appendBlob(body, []byte("7"))         // the key
	body = appendUvarint(body, 0)                // zero values: invalid

	_, err := testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.ErrorIs(t, err, ErrEmptyValueSet)
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecode_DuplicateValuesCollapse(t *testing.T) {
	var body []byte
	body = appendBlob(body, []byte(NaturalName))
	body = appendBlob(body, []byte(NaturalName))
	body = appendUvarint(body, 1)
	body = appendBlob(body, []byte("7"))
	body = appendUvarint(body, 3)
	body = appendBlob(body, []byte(`"x"`))
	body = appendBlob(body, []byte(`"x"`))
	body = appendBlob(body, []byte(`"y"`))

	got, err := testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Get(7).Slice())
	assert.Equal(t, 2, got.Len())
}

func TestDecode_AbsurdBlobLength(t *testing.T) {
	// A stream announcing a multi-exabyte blob must fail as corruption, not
	// be trusted with the allocation.
	var body []byte
	body = appendUvarint(body, 1<<62)

	var got *Multimap[int, string]
	var err error
	require.NotPanics(t, func() {
		got, err = testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	})
	require.ErrorIs(t, err, ErrCorruptData)
	assert.Nil(t, got)

	// Same guard past the comparator names, on a key blob.
	body = nil
	body = appendBlob(body, []byte(NaturalName))
	body = appendBlob(body, []byte(NaturalName))
	body = appendUvarint(body, 1)
	body = appendUvarint(body, 1<<62) // key blob length

	_, err = testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecode_AbsurdCounts(t *testing.T) {
	// Key count beyond the decode limit.
	var body []byte
	body = appendBlob(body, []byte(NaturalName))
	body = appendBlob(body, []byte(NaturalName))
	body = appendUvarint(body, 1<<62)

	_, err := testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.ErrorIs(t, err, ErrCorruptData)

	// Value count beyond the decode limit.
	body = nil
	body = appendBlob(body, []byte(NaturalName))
	body = appendBlob(body, []byte(NaturalName))
	body = appendUvarint(body, 1)
	body = appendBlob(body, []byte("7"))
	body = appendUvarint(body, 1<<62)

	_, err = testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecode_NilRegistry(t *testing.T) {
	m := testMultimap(t)

	var buf bytes.Buffer
	require.NoError(t, NewEncoder[int, string](&buf, nil, nil).Encode(m, NaturalName, NaturalName))

	dec := NewDecoder[int, string](&buf, nil, nil, nil, NaturalRegistry[string]())
	_, err := dec.Decode()
	require.ErrorIs(t, err, ErrInvalidArgument)

	dec = NewDecoder[int, string](&buf, nil, nil, NaturalRegistry[int](), nil)
	_, err = dec.Decode()
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDecode_GarbageKeyBlob(t *testing.T) {
	var body []byte
	body = appendBlob(body, []byte(NaturalName))
	body = appendBlob(body, []byte(NaturalName))
	body = appendUvarint(body, 1)
	body = appendBlob(body, []byte("not-a-number"))
	body = appendUvarint(body, 1)
	body = appendBlob(body, []byte(`"x"`))

	_, err := testDecoder(bytes.NewBuffer(craftStream(t, body))).Decode()
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestCodec_ByName(t *testing.T) {
	c, ok := CodecByName[string]("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = CodecByName[string]("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = CodecByName[string]("msgpack")
	assert.False(t, ok)

	b, err := c.Marshal("hello")
	require.NoError(t, err)
	s, err := c.Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}
