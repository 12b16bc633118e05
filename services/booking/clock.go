package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock abstracts the current-time source so the past-slot test is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// minutesPerDay is the wrap point for FormatTime.
const minutesPerDay = 24 * 60

// ParseTime converts a zero-padded "HH:MM" clock string to minutes since
// midnight. Anything that is not exactly two colon-separated integers with
// hours in [0,23] and minutes in [0,59] is rejected with an invalidFormat
// error.
func ParseTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, NewInvalidFormatError(fmt.Sprintf("time %q is not HH:MM", s))
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, NewInvalidFormatError(fmt.Sprintf("time %q has a non-numeric hour", s))
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, NewInvalidFormatError(fmt.Sprintf("time %q has a non-numeric minute", s))
	}
	if hours < 0 || hours > 23 {
		return 0, NewInvalidFormatError(fmt.Sprintf("time %q has hour outside 00-23", s))
	}
	if mins < 0 || mins > 59 {
		return 0, NewInvalidFormatError(fmt.Sprintf("time %q has minute outside 00-59", s))
	}
	return hours*60 + mins, nil
}

// FormatTime converts minutes since midnight to a zero-padded "HH:MM"
// string. Values outside [0,1439] wrap modulo one day, so the function is
// total and the inverse of ParseTime on [0,1439].
func FormatTime(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parseDate validates a "YYYY-MM-DD" calendar date in the given location.
func parseDate(date string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, NewInvalidFormatError(fmt.Sprintf("date %q is not YYYY-MM-DD", date))
	}
	return day, nil
}

// isoWeekday maps Go's Sunday=0 weekday to ISO numbering (Monday=1,
// Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
