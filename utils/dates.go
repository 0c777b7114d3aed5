// utils/dates.go
package utils

import "time"

// DateLayout is the wire format for appointment dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format date in the server's timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDate renders t in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// BeginningOfDay truncates t to midnight in its location.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
