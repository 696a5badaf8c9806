// Package calendar provides holiday calendars and business-day adjustment.
//
// The NONE calendar treats every weekday and weekend alike as a business day;
// simulation schedules that walk calendar days unadjusted use it.
package calendar

import "time"

// CalendarID identifies a business-day calendar.
type CalendarID string

const (
	NONE     CalendarID = "NONE"
	WEEKENDS CalendarID = "WEEKENDS"
)

// IsBusinessDay checks the calendar's business-day rule. Every day counts as
// a business day on the NONE calendar.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if cal == NONE {
		return true
	}
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// DailySchedule returns every calendar day from start to end inclusive,
// unadjusted on the NONE calendar.
func DailySchedule(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
