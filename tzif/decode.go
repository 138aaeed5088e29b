package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Retention bounds taken from RFC 8536 section 3.2.
const (
	minTransitionTime = -(1 << 59)
	minUtoff          = -89999
	maxUtoff          = 93599
	invalidUtoff      = -(1 << 32)
	minLeapGap        = 2419199
)

// ReadHeader reads the magic, the version octet, the reserved octets and the
// six counts. It always consumes HeaderSize bytes on success.
func ReadHeader(c *Cursor) (Header, error) {
	var h Header
	magic, err := c.Advance(len(Magic))
	if err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}
	marker, err := c.ReadUint(1)
	if err != nil {
		return h, fmt.Errorf("reading version: %w", err)
	}
	if h.Version, err = versionFromMarker(byte(marker)); err != nil {
		return h, err
	}
	if err := c.Skip(15); err != nil {
		return h, fmt.Errorf("reading reserved octets: %w", err)
	}
	counts := []struct {
		name string
		dst  *uint32
	}{
		{"isutcnt", &h.Isutcnt},
		{"isstdcnt", &h.Isstdcnt},
		{"leapcnt", &h.Leapcnt},
		{"timecnt", &h.Timecnt},
		{"typecnt", &h.Typecnt},
		{"charcnt", &h.Charcnt},
	}
	for _, f := range counts {
		v, err := c.ReadUint(4)
		if err != nil {
			return h, fmt.Errorf("reading %s: %w", f.name, err)
		}
		*f.dst = uint32(v)
	}
	return h, nil
}

// ReadDataBlock reads the data block that follows h. The width of time
// values is taken from layout, which is V1 for the first block of every
// file and the header's own version for the second block.
func ReadDataBlock(c *Cursor, h Header, layout Version) (DataBlock, error) {
	var (
		b        DataBlock
		err      error
		timeSize = layout.timeSize()
		// typeLimit is typecnt-1; signed so that typecnt == 0 keeps nothing.
		typeLimit = int64(h.Typecnt) - 1
	)

	b.TransitionTimes, err = ReadFilteredRun(c, h.Timecnt, timeSize, intOf[int64](timeSize),
		func(t int64) bool { return t > minTransitionTime })
	if err != nil {
		return b, fmt.Errorf("reading transition times: %w", err)
	}

	belowTypeLimit := func(v uint8) bool { return int64(v) < typeLimit }

	b.TransitionTypes, err = ReadFilteredRun(c, h.Timecnt, 1, uintOf[uint8](1), belowTypeLimit)
	if err != nil {
		return b, fmt.Errorf("reading transition types: %w", err)
	}

	b.LocalTimeTypes, err = ReadFilteredRun(c, h.Typecnt, localTimeTypeSize, readLocalTimeType,
		func(t LocalTimeType) bool {
			off := int64(t.Utoff)
			return off != invalidUtoff && off > minUtoff && off < maxUtoff && isFlag(t.Dst)
		})
	if err != nil {
		return b, fmt.Errorf("reading local time type records: %w", err)
	}

	b.TimeZoneDesignations, err = ReadFilteredRun(c, h.Charcnt, 1, uintOf[uint8](1), belowTypeLimit)
	if err != nil {
		return b, fmt.Errorf("reading time zone designations: %w", err)
	}

	var (
		retained bool
		last     int64
	)
	b.LeapSeconds, err = ReadFilteredRun(c, h.Typecnt, timeSize+4, leapSecondReader(timeSize),
		func(r LeapSecond) bool {
			if retained && r.Occur-last < minLeapGap {
				return false
			}
			retained, last = true, r.Occur
			return true
		})
	if err != nil {
		return b, fmt.Errorf("reading leap second records: %w", err)
	}

	b.StandardWallIndicators, err = ReadFilteredRun(c, h.Isstdcnt, 1, uintOf[uint8](1), isFlag)
	if err != nil {
		return b, fmt.Errorf("reading standard/wall indicators: %w", err)
	}

	b.UTLocalIndicators, err = ReadFilteredRun(c, h.Isutcnt, 1, uintOf[uint8](1), isFlag)
	if err != nil {
		return b, fmt.Errorf("reading UT/local indicators: %w", err)
	}
	return b, nil
}

func isFlag(v uint8) bool { return v == 0 || v == 1 }

func readLocalTimeType(c *Cursor) (LocalTimeType, error) {
	var t LocalTimeType
	utoff, err := c.ReadInt(4)
	if err != nil {
		return t, err
	}
	dst, err := c.ReadUint(1)
	if err != nil {
		return t, err
	}
	idx, err := c.ReadUint(1)
	if err != nil {
		return t, err
	}
	return LocalTimeType{Utoff: int32(utoff), Dst: uint8(dst), Idx: uint8(idx)}, nil
}

func leapSecondReader(timeSize int) func(*Cursor) (LeapSecond, error) {
	return func(c *Cursor) (LeapSecond, error) {
		occur, err := c.ReadInt(timeSize)
		if err != nil {
			return LeapSecond{}, err
		}
		corr, err := c.ReadInt(4)
		if err != nil {
			return LeapSecond{}, err
		}
		return LeapSecond{Occur: occur, Corr: int32(corr)}, nil
	}
}

// ReadFooter reads the newline-enclosed TZ string.
func ReadFooter(c *Cursor) (Footer, error) {
	var f Footer
	nl, err := c.ReadUint(1)
	if err != nil {
		return f, fmt.Errorf("reading newline: %w", err)
	}
	if nl != '\n' {
		return f, fmt.Errorf("expected newline: %v", nl)
	}
	var s []byte
	for {
		ch, err := c.ReadUint(1)
		if err != nil {
			return f, fmt.Errorf("reading TZ string: %w", err)
		}
		if ch == '\n' {
			break
		}
		s = append(s, byte(ch))
	}
	f.TZString = s
	return f, nil
}

type decodeState int

const (
	stateHeader decodeState = iota
	stateBlock
	stateDone
)

// decoder walks a file through header and block states. A version 2+ file
// visits both states twice and only the second pass is kept.
type decoder struct {
	c    *Cursor
	pass int

	first  Header
	firstB DataBlock
	header Header
	block  DataBlock
}

func (d *decoder) run() error {
	for state := stateHeader; state != stateDone; {
		switch state {
		case stateHeader:
			d.pass++
			h, err := ReadHeader(d.c)
			if err != nil {
				return fmt.Errorf("read header %d: %w", d.pass, err)
			}
			d.header = h
			state = stateBlock
		case stateBlock:
			layout := d.header.Version
			if d.pass == 1 {
				layout = V1
			}
			b, err := ReadDataBlock(d.c, d.header, layout)
			if err != nil {
				return fmt.Errorf("read data block %d: %w", d.pass, err)
			}
			d.block = b
			state = stateDone
			if d.pass == 1 {
				d.first, d.firstB = d.header, b
				if d.header.Version > V1 {
					state = stateHeader
				}
			}
		}
	}
	return nil
}

// Decode decodes the authoritative header and data block of a TZif file.
// For version 2+ files the leading version-1-shaped block is consumed and
// discarded. Bytes after the authoritative block, such as the footer, are
// not read.
func Decode(data []byte, order binary.ByteOrder) (Header, DataBlock, error) {
	d := decoder{c: NewCursor(data, order)}
	if err := d.run(); err != nil {
		return Header{}, DataBlock{}, err
	}
	return d.header, d.block, nil
}

// DecodeFile decodes every part of a TZif file including the footer of
// version 2+ files. It is meant for inspection tools; Decode is sufficient
// for offset lookups.
func DecodeFile(data []byte, order binary.ByteOrder) (File, error) {
	d := decoder{c: NewCursor(data, order)}
	if err := d.run(); err != nil {
		return File{}, err
	}
	f := File{
		Version:  d.first.Version,
		V1Header: d.first,
		V1Data:   d.firstB,
		Header:   d.header,
		Data:     d.block,
	}
	if f.Version > V1 {
		footer, err := ReadFooter(d.c)
		if err != nil {
			return f, fmt.Errorf("read footer: %w", err)
		}
		f.Footer = footer
	}
	return f, nil
}
