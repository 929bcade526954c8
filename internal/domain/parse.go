package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock    = errors.New("invalid clock time")
	ErrInvalidWindow   = errors.New("invalid window")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidMonthDay = errors.New("invalid month-day")
	ErrInvalidWeekday  = errors.New("invalid weekday")
)

// Interval bounds accepted from user input, in minutes.
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 12 * 60
)

// ParseClock parses "H:MM" or "HH:MM" into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hs, ms := parts[0], parts[1]
	if len(hs) < 1 || len(hs) > 2 || len(ms) != 2 || !isAllDigits(hs) || !isAllDigits(ms) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, _ = strconv.Atoi(hs)
	minute, _ = strconv.Atoi(ms)
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// NormalizeClock returns s in canonical "HH:MM" form.
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(h, m), nil
}

// FormatClock renders hour and minute as HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ParseWindow parses "HH:MM-HH:MM" (an en dash is accepted too) into canonical bounds.
func ParseWindow(s string) (start, end string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidWindow)
	}
	sep := "–"
	if strings.Contains(s, "-") && !strings.Contains(s, "–") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected HH:MM-HH:MM", ErrInvalidWindow)
	}
	if start, err = NormalizeClock(parts[0]); err != nil {
		return "", "", fmt.Errorf("%w: from: %w", ErrInvalidWindow, err)
	}
	if end, err = NormalizeClock(parts[1]); err != nil {
		return "", "", fmt.Errorf("%w: to: %w", ErrInvalidWindow, err)
	}
	return start, end, nil
}

// ParseIntervalMinutes parses a plain number of minutes ("45") or a Go-style
// duration ("1h30m") and checks it against the accepted bounds.
func ParseIntervalMinutes(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var mins int
	if isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
		}
		mins = n
	} else {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
		}
		mins = int(d / time.Minute)
	}
	if mins < MinIntervalMinutes || mins > MaxIntervalMinutes {
		return 0, fmt.Errorf("%w: must be %d..%d minutes", ErrInvalidInterval, MinIntervalMinutes, MaxIntervalMinutes)
	}
	return mins, nil
}

var monthDayRe = regexp.MustCompile(`^\s*(\d{1,2})\s*[-/.]\s*(\d{1,2})\s*(.*)$`)

// ParseMonthDay parses "MM-DD text", "MM/DD text" or "MM.DD text".
// The returned key is normalized to "MM-DD".
func ParseMonthDay(s string) (key, desc string, err error) {
	m := monthDayRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidMonthDay, s)
	}
	mm, _ := strconv.Atoi(m[1])
	dd, _ := strconv.Atoi(m[2])
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return "", "", fmt.Errorf("%w: %q out of range", ErrInvalidMonthDay, s)
	}
	return fmt.Sprintf("%02d-%02d", mm, dd), strings.TrimSpace(m[3]), nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseWeekdays parses short weekday names ("mon", "Tuesday") into a sorted set.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if len(n) > 3 {
			n = n[:3]
		}
		wd, ok := weekdayNames[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, n)
		}
		seen[wd] = true
	}
	out := make([]time.Weekday, 0, len(seen))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if seen[wd] {
			out = append(out, wd)
		}
	}
	return out, nil
}

// ShortWeekday renders a weekday as a three-letter English name.
func ShortWeekday(wd time.Weekday) string {
	return wd.String()[:3]
}
