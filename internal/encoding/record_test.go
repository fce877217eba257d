package encoding

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{VectorCount: 42, Dimensions: 128}
	got, err := DecodeHeader(EncodeHeader(h))
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{ID: 7, Vector: []float32{1.5, -2.25, 0}, Metadata: []byte(`{"k":"v"}`)}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rec, 3))

	got, err := ReadRecord(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestEncodeRejectsWrongVectorLength(t *testing.T) {
	_, err := Encode(nil, Record{Vector: []float32{1, 2}}, 3)
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestReadRecordEOFAtBoundary(t *testing.T) {
	_, err := ReadRecord(bytes.NewReader(nil), 3)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadRecordTruncatedMidRecord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Record{ID: 1, Vector: []float32{1, 2}, Metadata: []byte("null")}, 2))
	truncated := buf.Bytes()[:6]

	_, err := ReadRecord(bytes.NewReader(truncated), 2)
	assert.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestEncodedSizeMatchesEncode(t *testing.T) {
	rec := Record{ID: 1, Vector: []float32{1, 2, 3}, Metadata: []byte(`{"a":1}`)}
	buf, err := Encode(nil, rec, 3)
	require.NoError(t, err)
	assert.Equal(t, rec.EncodedSize(3), len(buf))
}
