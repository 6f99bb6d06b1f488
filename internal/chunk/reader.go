// Package chunk provides the low-level cursor and header decoding for the
// length-prefixed chunk tree used by 3DS files.
//
// Every chunk starts with a 6-byte header: a little-endian uint16 ID followed
// by a little-endian uint32 length that covers the header and the body.
package chunk

import (
	"bytes"
	"encoding/binary"
)

// Header describes one chunk. Offset is where the header itself begins.
type Header struct {
	ID     uint16
	Offset int64
	Length uint32
}

// End returns the absolute offset one past the last byte of the chunk.
func (h Header) End() int64 {
	return h.Offset + int64(h.Length)
}

// BodyOffset returns the absolute offset of the first body byte.
func (h Header) BodyOffset() int64 {
	return h.Offset + HeaderSize
}

// Within returns ErrOutOfBounds if the chunk ends after end.
func (h Header) Within(end int64) error {
	if h.End() > end {
		return newError("contain", h.Offset, h.ID, ErrOutOfBounds)
	}
	return nil
}

// Reader is a cursor over an in-memory buffer. The buffer is never modified.
type Reader struct {
	buf []byte
	pos int64
}

// NewReader returns a reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Len returns the buffer length.
func (r *Reader) Len() int64 {
	return int64(len(r.buf))
}

// Remaining returns the number of bytes left after the cursor.
func (r *Reader) Remaining() int64 {
	if r.pos >= int64(len(r.buf)) {
		return 0
	}
	return int64(len(r.buf)) - r.pos
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, newError("read", r.pos, 0, ErrTruncated)
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, newError("read", r.pos, 0, ErrTruncated)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadHeader decodes the chunk header at the cursor and advances past it.
// A length shorter than the header itself is rejected, since seeking to
// such a chunk's end would never move the cursor forward.
func (r *Reader) ReadHeader() (Header, error) {
	start := r.pos
	if r.Remaining() < HeaderSize {
		return Header{}, newError("read header", start, 0, ErrTruncated)
	}
	id, _ := r.ReadUint16()
	length, _ := r.ReadUint32()

	h := Header{ID: id, Offset: start, Length: length}
	if length < minChunkLength {
		return h, newError("read header", start, id, ErrBadLength)
	}
	return h, nil
}

// SkipTo moves the cursor to the end of h regardless of how much of its
// body has been consumed.
func (r *Reader) SkipTo(h Header) error {
	if h.End() > int64(len(r.buf)) {
		return newError("seek", h.Offset, h.ID, ErrOutOfBounds)
	}
	r.pos = h.End()
	return nil
}

// ReadCString reads a null-terminated byte run at the cursor. The terminator
// must appear before the end of h and before the end of the buffer. The
// returned slice excludes the terminator and aliases the buffer.
func (r *Reader) ReadCString(h Header) ([]byte, error) {
	limit := h.End()
	if n := int64(len(r.buf)); limit > n {
		limit = n
	}
	if r.pos >= limit {
		return nil, newError("read string", r.pos, h.ID, ErrUnterminatedString)
	}
	idx := bytes.IndexByte(r.buf[r.pos:limit], 0)
	if idx < 0 {
		return nil, newError("read string", r.pos, h.ID, ErrUnterminatedString)
	}
	s := r.buf[r.pos : r.pos+int64(idx)]
	r.pos += int64(idx) + 1
	return s, nil
}
