package tzif

import (
	"errors"
	"fmt"
)

// Inspect compares the retained data against the counts announced by h and
// returns one error per field that lost elements to its retention
// predicate, or nil if nothing was dropped.
func Inspect(h Header, b DataBlock) error {
	var errs []error
	check := func(field string, want uint32, got int) {
		if int64(got) != int64(want) {
			errs = append(errs, fmt.Errorf("%s: kept %d of %d", field, got, want))
		}
	}
	check("transition times", h.Timecnt, len(b.TransitionTimes))
	check("transition types", h.Timecnt, len(b.TransitionTypes))
	check("local time type records", h.Typecnt, len(b.LocalTimeTypes))
	check("time zone designations", h.Charcnt, len(b.TimeZoneDesignations))
	check("leap second records", h.Typecnt, len(b.LeapSeconds))
	check("standard/wall indicators", h.Isstdcnt, len(b.StandardWallIndicators))
	check("UT/local indicators", h.Isutcnt, len(b.UTLocalIndicators))

	if h.Typecnt == 0 {
		errs = append(errs, errors.New("typecnt: must not be zero"))
	}
	if h.Isutcnt != 0 && h.Isutcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("isutcnt (%d): must be 0 or equal to typecnt (%d)", h.Isutcnt, h.Typecnt))
	}
	if h.Isstdcnt != 0 && h.Isstdcnt != h.Typecnt {
		errs = append(errs, fmt.Errorf("isstdcnt (%d): must be 0 or equal to typecnt (%d)", h.Isstdcnt, h.Typecnt))
	}
	return errors.Join(errs...)
}
