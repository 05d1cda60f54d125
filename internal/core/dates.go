package core

import (
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	StampLayout = "2006-01-02 15:04"
)

// ParseDate reads either a date or a minute-precision timestamp. Anything
// else yields the zero time, which orders before every real date.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(StampLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatStamp renders t as YYYY-MM-DD HH:MM.
func FormatStamp(t time.Time) string { return t.Format(StampLayout) }

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// OnOrAfterDay reports whether the calendar day of s is the day of now or
// later. Unreadable dates never are.
func OnOrAfterDay(s string, now time.Time) bool {
	t := ParseDate(s)
	if t.IsZero() {
		return false
	}
	return FormatDate(t) >= FormatDate(now)
}
