package chunk

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by this package and by the scene
// walker wraps exactly one of these.
var (
	ErrTruncated          = errors.New("truncated chunk")
	ErrOutOfBounds        = errors.New("chunk extends past its container")
	ErrBadLength          = errors.New("chunk length shorter than its header")
	ErrUnterminatedString = errors.New("string has no null terminator")
	ErrInvalidUTF8        = errors.New("string is not valid UTF-8")
	ErrUnsupportedRoot    = errors.New("not a 3DS file")
)

// Error records the operation, byte offset and chunk ID at which decoding failed.
type Error struct {
	Op     string
	Offset int64
	ID     uint16
	Err    error
}

func (e *Error) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("3ds: %s at offset 0x%x: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("3ds: %s chunk %s at offset 0x%x: %v", e.Op, Name(e.ID), e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, offset int64, id uint16, err error) *Error {
	return &Error{Op: op, Offset: offset, ID: id, Err: err}
}
