// Package civil turns seconds since the UNIX epoch into a Gregorian calendar
// date and clock time without using time.Time or time.Location.
package civil

import (
	"errors"
	"fmt"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	epochYear = 1970
)

// ErrNegativeEpoch is returned for instants before 1970-01-01 00:00:00.
var ErrNegativeEpoch = errors.New("epoch seconds before 1970")

// Time is a civil date and time of day.
type Time struct {
	Year   int
	Month  int // 1-12
	Day    int // 1-31
	Hour   int
	Minute int
	Second int
}

// Convert splits epoch, seconds since 1970-01-01 00:00:00 already shifted by
// any UTC offset, into civil fields. Leap seconds are not accounted for.
func Convert(epoch int64) (Time, error) {
	if epoch < 0 {
		return Time{}, fmt.Errorf("%w: %d", ErrNegativeEpoch, epoch)
	}
	days := epoch / secondsPerDay
	rem := epoch % secondsPerDay

	t := Time{
		Hour:   int(rem / secondsPerHour),
		Minute: int(rem % secondsPerHour / secondsPerMinute),
		Second: int(rem % secondsPerMinute),
	}

	t.Year = epochYear
	for days >= int64(DaysInYear(t.Year)) {
		days -= int64(DaysInYear(t.Year))
		t.Year++
	}

	t.Month = 1
	for days >= int64(DaysInMonth(t.Month, t.Year)) {
		days -= int64(DaysInMonth(t.Month, t.Year))
		t.Month++
	}

	t.Day = int(days) + 1
	return t, nil
}

// Format converts epoch and renders it with String.
func Format(epoch int64) (string, error) {
	t, err := Convert(epoch)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// String renders t as DD.MM.YYYY HH:MM:SS.
func (t Time) String() string {
	return fmt.Sprintf("%02d.%02d.%d %02d:%02d:%02d", t.Day, t.Month, t.Year, t.Hour, t.Minute, t.Second)
}

// Unix returns the seconds since the epoch for t. It is the inverse of
// Convert for every t that Convert can produce, computed in closed form
// rather than by walking years.
func (t Time) Unix() int64 {
	daysSinceStartOfYear := [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

	d := daysBeforeYear(t.Year) + daysSinceStartOfYear[t.Month-1] + int64(t.Day-1)
	if t.Month > 2 && IsLeapYear(t.Year) {
		d++ // +leap year
	}
	return d*secondsPerDay + int64(t.Hour)*secondsPerHour + int64(t.Minute)*secondsPerMinute + int64(t.Second)
}

// daysBeforeYear returns the days from 1970-01-01 to January 1st of year.
func daysBeforeYear(year int) int64 {
	leaps := func(y int64) int64 { return y/4 - y/100 + y/400 }
	y := int64(year)
	return 365*(y-epochYear) + leaps(y-1) - leaps(epochYear-1)
}
