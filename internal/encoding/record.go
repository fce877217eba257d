// Package encoding implements the on-disk binary layout for TinyVecDB
// files: the fixed header and the variable-length vector records that
// follow it. All integers are little-endian; encoding/binary's
// LittleEndian codec always emits bytes in that order regardless of
// host architecture, so no separate big-endian-host swap path is
// needed here.
package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the fixed byte size of the file header.
const HeaderSize = 8

// ErrInvalidVector is returned when vector bytes are malformed or absent.
var ErrInvalidVector = errors.New("invalid vector data")

// ErrTruncatedRecord is returned when a record cannot be fully read.
var ErrTruncatedRecord = errors.New("truncated record")

// Header is the file's fixed 8-byte preamble.
type Header struct {
	VectorCount uint32
	Dimensions  uint32
}

// EncodeHeader renders a Header to its 8-byte on-disk form.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.VectorCount)
	binary.LittleEndian.PutUint32(buf[4:8], h.Dimensions)
	return buf
}

// DecodeHeader parses an 8-byte buffer into a Header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("header too short: %d bytes", len(buf))
	}
	return Header{
		VectorCount: binary.LittleEndian.Uint32(buf[0:4]),
		Dimensions:  binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// Record is one decoded (id, vector, metadata) tuple.
type Record struct {
	ID       uint32
	Vector   []float32
	Metadata []byte // raw UTF-8 JSON, including the 4-byte "null" form
}

// EncodedSize returns the on-disk byte size of r for the given dimensions.
func (r Record) EncodedSize(dimensions uint32) int {
	return 4 + int(dimensions)*4 + 4 + len(r.Metadata)
}

// Encode appends r's on-disk bytes to dst and returns the result.
func Encode(dst []byte, r Record, dimensions uint32) ([]byte, error) {
	if uint32(len(r.Vector)) != dimensions {
		return nil, fmt.Errorf("%w: record has %d components, file dimensions %d", ErrInvalidVector, len(r.Vector), dimensions)
	}
	if len(r.Metadata) > math.MaxUint32 {
		return nil, fmt.Errorf("metadata too large: %d bytes", len(r.Metadata))
	}

	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], r.ID)
	dst = append(dst, idBuf[:]...)

	var fBuf [4]byte
	for _, v := range r.Vector {
		binary.LittleEndian.PutUint32(fBuf[:], math.Float32bits(v))
		dst = append(dst, fBuf[:]...)
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(r.Metadata)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, r.Metadata...)

	return dst, nil
}

// Write encodes r and writes it directly to w.
func Write(w io.Writer, r Record, dimensions uint32) error {
	buf, err := Encode(nil, r, dimensions)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// ReadRecord decodes one record from r, assuming the file's fixed
// dimensions. Returns io.EOF (unwrapped) only when zero bytes could be
// read at the start of a record; any other short read is
// ErrTruncatedRecord so callers can distinguish "no more records" from
// "the file is corrupt".
func ReadRecord(r io.Reader, dimensions uint32) (Record, error) {
	var idBuf [4]byte
	n, err := io.ReadFull(r, idBuf[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("%w: reading id: %v", ErrTruncatedRecord, err)
	}
	id := binary.LittleEndian.Uint32(idBuf[:])

	vecBytes := make([]byte, int(dimensions)*4)
	if _, err := io.ReadFull(r, vecBytes); err != nil {
		return Record{}, fmt.Errorf("%w: reading vector: %v", ErrTruncatedRecord, err)
	}
	vec := make([]float32, dimensions)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(vecBytes[i*4 : i*4+4]))
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading metadata length: %v", ErrTruncatedRecord, err)
	}
	metaLen := binary.LittleEndian.Uint32(lenBuf[:])

	var metadata []byte
	if metaLen > 0 {
		metadata = make([]byte, metaLen)
		if _, err := io.ReadFull(r, metadata); err != nil {
			return Record{}, fmt.Errorf("%w: reading metadata: %v", ErrTruncatedRecord, err)
		}
	}

	return Record{ID: id, Vector: vec, Metadata: metadata}, nil
}
