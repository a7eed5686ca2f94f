// Package time contains clock seams and day-granularity helpers
package time

import "time"

// DayLayout is the calendar-day format used for scan dates
const DayLayout = "2006-01-02"

// Clock returns the current time; injected so tests can pin it
type Clock func() time.Time

// System is the wall clock
var System Clock = time.Now

// Fixed returns a Clock that always reports t
func Fixed(t time.Time) Clock { return func() time.Time { return t } }

// Today formats the clock's current day in its own location
func (c Clock) Today() string { return Day(c()) }

// Day formats t as YYYY-MM-DD
func Day(t time.Time) string { return t.Format(DayLayout) }

// ValidDay reports whether s is a full YYYY-MM-DD calendar date
func ValidDay(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil
}
