package tzif

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferUnderrun is returned when a read needs more bytes than the
	// buffer has left. The decode pass that hit it cannot be resumed.
	ErrBufferUnderrun = errors.New("buffer underrun")

	// ErrBadMagic is returned when the data does not start with "TZif".
	ErrBadMagic = errors.New("invalid magic")

	// ErrBadVersion is returned for a version octet other than 0x00, '2', '3' or '4'.
	ErrBadVersion = errors.New("invalid version")
)

// UnderrunError describes a read past the end of a Cursor.
type UnderrunError struct {
	Pos       int // position of the failed read
	Want      int // bytes requested
	Remaining int // bytes that were left
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("buffer underrun at offset %d: want %d bytes, %d remaining", e.Pos, e.Want, e.Remaining)
}

func (e *UnderrunError) Is(target error) bool {
	return target == ErrBufferUnderrun
}
