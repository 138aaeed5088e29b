package tzif

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrNoLocalTimeTypes is returned by Lookup when no local time type
	// record survived decoding.
	ErrNoLocalTimeTypes = errors.New("no local time type records")

	// ErrUnaligned is returned by Lookup when dropped records make it
	// impossible to pair transitions with their local time types.
	ErrUnaligned = errors.New("transition data is not aligned")
)

// Lookup returns the local time type in effect at the UNIX time sec: the
// type of the latest transition at or before sec. Before the first
// transition, or without transitions, the first standard time record is
// used (or the first record if all are DST).
//
// Lookup only trusts index-aligned data: every transition time, transition
// type and local time type announced by h must have been retained.
func Lookup(h Header, b DataBlock, sec int64) (LocalTimeType, error) {
	if len(b.LocalTimeTypes) == 0 {
		return LocalTimeType{}, ErrNoLocalTimeTypes
	}
	if len(b.LocalTimeTypes) != int(h.Typecnt) {
		return LocalTimeType{}, fmt.Errorf("%w: %d of %d local time types retained", ErrUnaligned, len(b.LocalTimeTypes), h.Typecnt)
	}
	// Equal lengths are not enough: each filter may drop a different index.
	if len(b.TransitionTimes) != int(h.Timecnt) || len(b.TransitionTypes) != int(h.Timecnt) {
		return LocalTimeType{}, fmt.Errorf("%w: %d transition times, %d transition types, timecnt %d",
			ErrUnaligned, len(b.TransitionTimes), len(b.TransitionTypes), h.Timecnt)
	}

	tx := b.TransitionTimes
	if len(tx) == 0 || sec < tx[0] {
		return firstStandard(b.LocalTimeTypes), nil
	}
	// Index of the last transition <= sec.
	i := sort.Search(len(tx), func(i int) bool { return tx[i] > sec }) - 1
	idx := int(b.TransitionTypes[i])
	if idx >= len(b.LocalTimeTypes) {
		return LocalTimeType{}, fmt.Errorf("%w: transition %d refers to type %d", ErrUnaligned, i, idx)
	}
	return b.LocalTimeTypes[idx], nil
}

func firstStandard(types []LocalTimeType) LocalTimeType {
	for _, t := range types {
		if !t.IsDST() {
			return t
		}
	}
	return types[0]
}

// Designation returns the NUL-terminated designation starting at idx in the
// retained designation octets, decoded as ISO-8859-1. It returns "" if idx is
// out of range.
func (b DataBlock) Designation(idx uint8) string {
	if int(idx) >= len(b.TimeZoneDesignations) {
		return ""
	}
	raw := b.TimeZoneDesignations[idx:]
	for i, ch := range raw {
		if ch == 0 {
			raw = raw[:i]
			break
		}
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(s)
}
