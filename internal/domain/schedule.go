package domain

import "time"

const (
	minuteKeyLayout = "2006-01-02 15:04"
	dayKeyLayout    = "2006-01-02"
)

// MinuteKey identifies the calendar minute of t; it dedupes point events.
func MinuteKey(t time.Time) string {
	return t.Format(minuteKeyLayout)
}

// DayKey identifies the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// MonthDay returns t as "MM-DD".
func MonthDay(t time.Time) string {
	return t.Format("01-02")
}

// At returns t's date at the given clock time, in t's location.
func At(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// InWindow reports whether now lies between start and end on now's date.
// When end <= start the window wraps past midnight: [start, 24:00) plus [00:00, end].
// Unparsable bounds yield false.
func InWindow(now time.Time, start, end string) bool {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return false
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return false
	}
	s := At(now, sh, sm)
	e := At(now, eh, em)
	if !e.After(s) {
		return !now.Before(s) || !now.After(e)
	}
	return !now.Before(s) && !now.After(e)
}
