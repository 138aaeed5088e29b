// Package clock reads the system wall clock as whole seconds since the
// UNIX epoch.
package clock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Source returns the current time as signed seconds since
// 1970-01-01 00:00:00 UTC.
type Source interface {
	Now() (int64, error)
}

// Realtime reads CLOCK_REALTIME.
type Realtime struct{}

// Now implements Source.
func (Realtime) Now() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, fmt.Errorf("clock_gettime: %w", err)
	}
	return int64(ts.Sec), nil
}

// Fixed is a Source that always reports the same instant.
type Fixed int64

// Now implements Source.
func (f Fixed) Now() (int64, error) { return int64(f), nil }

// Func adapts a function to a Source.
type Func func() (int64, error)

// Now implements Source.
func (f Func) Now() (int64, error) { return f() }
