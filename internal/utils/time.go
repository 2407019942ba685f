package utils

import (
	"strings"
	"time"

	"github.com/julianstephens/cheese/internal/constants"
)

// civilZone is the fixed UTC+8 zone every civil date is derived in.
var civilZone = time.FixedZone(constants.CivilOffsetName, int(constants.CivilOffset.Seconds()))

// Clock returns the current instant. The tracker and codec take one so tests can pin time.
type Clock func() time.Time

// SystemClock is the Clock backed by the host clock.
func SystemClock() time.Time {
	return time.Now()
}

// CivilZone returns the fixed UTC+8 location.
func CivilZone() *time.Location {
	return civilZone
}

// Now returns the current instant expressed in the civil zone.
func Now() time.Time {
	return time.Now().In(civilZone)
}

// Timestamp formats an instant as RFC3339 with the +08:00 offset.
func Timestamp(t time.Time) string {
	return t.In(civilZone).Format(time.RFC3339)
}

// ParseInstant parses an ISO-8601 instant or a bare YYYY-MM-DD date.
// Bare dates are taken as civil midnight. Returns false for empty or malformed input.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(constants.DateFormat, s, civilZone); err == nil {
		return t, true
	}
	// datetime-local inputs carry no offset; they are civil wall time
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, civilZone); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CivilDateString returns the YYYY-MM-DD civil date of t in UTC+8.
func CivilDateString(t time.Time) string {
	return t.In(civilZone).Format(constants.DateFormat)
}

// CivilDateOf returns the civil date of a stored timestamp or date string.
func CivilDateOf(s string) (string, bool) {
	t, ok := ParseInstant(s)
	if !ok {
		return "", false
	}
	return CivilDateString(t), true
}

// civilMidnight truncates t to 00:00 of its civil date.
func civilMidnight(t time.Time) time.Time {
	c := t.In(civilZone)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, civilZone)
}

// daysBetweenTimes counts civil midnights crossed going from a to b.
func daysBetweenTimes(a, b time.Time) int {
	secs := civilMidnight(b).Unix() - civilMidnight(a).Unix()
	days := secs / 86400
	if secs%86400 != 0 && secs < 0 {
		days--
	}
	return int(days)
}

// DaysBetween returns the number of civil days from dateA to dateB (b - a).
// Either input may be a timestamp or a YYYY-MM-DD date. Returns false when
// either date is absent or malformed.
func DaysBetween(dateA, dateB string) (int, bool) {
	a, ok := ParseInstant(dateA)
	if !ok {
		return 0, false
	}
	b, ok := ParseInstant(dateB)
	if !ok {
		return 0, false
	}
	return daysBetweenTimes(a, b), true
}

// DaysFromToday returns how many civil days have passed since the given date.
// Future dates yield negative values.
func DaysFromToday(date string, now time.Time) (int, bool) {
	d, ok := ParseInstant(date)
	if !ok {
		return 0, false
	}
	return daysBetweenTimes(d, now), true
}

// FormatDisplayDate renders a stored date for humans, e.g. "March 4, 2025".
func FormatDisplayDate(s string) (string, bool) {
	t, ok := ParseInstant(s)
	if !ok {
		return "", false
	}
	return t.In(civilZone).Format(constants.DisplayDateFormat), true
}

// SameCivilDay reports whether two instants fall on the same civil date.
func SameCivilDay(a, b time.Time) bool {
	return CivilDateString(a) == CivilDateString(b)
}
