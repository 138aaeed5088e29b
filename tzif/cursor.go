package tzif

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a byte slice with a read position that only moves forward.
//
// Reads past the end fail with an *UnderrunError. After the first failure the
// cursor is poisoned and every further read returns the same error, so a
// truncated file can never yield zero-filled values.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	err   error
}

// NewCursor returns a Cursor positioned at the start of b that decodes
// multi-octet integers in the given byte order.
func NewCursor(b []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: b, order: order}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of bytes that can still be read.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Err returns the error that poisoned the cursor, if any.
func (c *Cursor) Err() error { return c.err }

// Advance returns the next n bytes and moves the position past them.
// The returned slice aliases the underlying buffer.
func (c *Cursor) Advance(n int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if n < 0 {
		c.err = fmt.Errorf("advance by negative count %d: %w", n, ErrBufferUnderrun)
		return nil, c.err
	}
	if n > c.Remaining() {
		c.err = &UnderrunError{Pos: c.pos, Want: n, Remaining: c.Remaining()}
		return nil, c.err
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p, nil
}

// Skip advances past n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.Advance(n)
	return err
}
