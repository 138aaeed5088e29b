package tzif

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteHeader writes h to w. Counts are written as given.
func WriteHeader(w io.Writer, order binary.ByteOrder, h Header) error {
	var buf [HeaderSize]byte
	copy(buf[:4], Magic[:])
	buf[4] = h.Version.Marker()
	for i, n := range []uint32{h.Isutcnt, h.Isstdcnt, h.Leapcnt, h.Timecnt, h.Typecnt, h.Charcnt} {
		order.PutUint32(buf[20+4*i:], n)
	}
	_, err := w.Write(buf[:])
	return err
}

// WriteDataBlock writes b using the time width of layout. Slices are written
// as given, so b must already hold the element counts announced by its header.
func WriteDataBlock(w io.Writer, order binary.ByteOrder, b DataBlock, layout Version) error {
	timeSize := layout.timeSize()
	for _, t := range b.TransitionTimes {
		if err := writeInt(w, order, t, timeSize); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypes {
		if err := writeInt(w, order, int64(r.Utoff), 4); err != nil {
			return err
		}
		if _, err := w.Write([]byte{r.Dst, r.Idx}); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TimeZoneDesignations); err != nil {
		return err
	}
	for _, r := range b.LeapSeconds {
		if err := writeInt(w, order, r.Occur, timeSize); err != nil {
			return err
		}
		if err := writeInt(w, order, int64(r.Corr), 4); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.StandardWallIndicators); err != nil {
		return err
	}
	_, err := w.Write(b.UTLocalIndicators)
	return err
}

func writeInt(w io.Writer, order binary.ByteOrder, v int64, width int) error {
	var buf [8]byte
	switch width {
	case 4:
		order.PutUint32(buf[:4], uint32(int32(v)))
	case 8:
		order.PutUint64(buf[:8], uint64(v))
	default:
		return fmt.Errorf("unsupported integer width %d", width)
	}
	_, err := w.Write(buf[:width])
	return err
}

// Encode writes f to w. The second block and the footer are only written
// for version 2+ files.
func (f File) Encode(w io.Writer, order binary.ByteOrder) error {
	if err := WriteHeader(w, order, f.V1Header); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := WriteDataBlock(w, order, f.V1Data, V1); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if f.Version > V1 {
		if err := WriteHeader(w, order, f.Header); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := WriteDataBlock(w, order, f.Data, f.Header.Version); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if _, err := w.Write(append(append([]byte{'\n'}, f.Footer.TZString...), '\n')); err != nil {
			return fmt.Errorf("write v2 footer: %w", err)
		}
	}
	return nil
}
