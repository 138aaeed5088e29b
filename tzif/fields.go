package tzif

import "fmt"

// ReadUint consumes width bytes and returns them as an unsigned integer in
// the cursor's byte order. Width must be 1, 2, 4 or 8.
func (c *Cursor) ReadUint(width int) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("unsupported integer width %d", width)
	}
	p, err := c.Advance(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(p[0]), nil
	case 2:
		return uint64(c.order.Uint16(p)), nil
	case 4:
		return uint64(c.order.Uint32(p)), nil
	default:
		return c.order.Uint64(p), nil
	}
}

// ReadInt consumes width bytes and returns them as a two's complement signed
// integer, sign-extended to 64 bits.
func (c *Cursor) ReadInt(width int) (int64, error) {
	u, err := c.ReadUint(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// ReadFilteredRun decodes count elements of width bytes each and returns the
// ones for which keep reports true, in file order. All count elements are
// consumed regardless of how many are kept.
func ReadFilteredRun[T any](c *Cursor, count uint32, width int, decode func(*Cursor) (T, error), keep func(T) bool) ([]T, error) {
	var out []T
	for i := uint32(0); i < count; i++ {
		start := c.Pos()
		v, err := decode(c)
		if err != nil {
			return out, fmt.Errorf("element %d of %d: %w", i, count, err)
		}
		if n := c.Pos() - start; n != width {
			return out, fmt.Errorf("element %d of %d: decoded %d bytes, want %d", i, count, n, width)
		}
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// uintOf returns a decoder for unsigned integers of the given width.
func uintOf[T ~uint8 | ~uint16 | ~uint32 | ~uint64](width int) func(*Cursor) (T, error) {
	return func(c *Cursor) (T, error) {
		v, err := c.ReadUint(width)
		return T(v), err
	}
}

// intOf returns a decoder for signed integers of the given width.
func intOf[T ~int8 | ~int16 | ~int32 | ~int64](width int) func(*Cursor) (T, error) {
	return func(c *Cursor) (T, error) {
		v, err := c.ReadInt(width)
		return T(v), err
	}
}
