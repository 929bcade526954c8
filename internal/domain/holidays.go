package domain

import "time"

// Fixed-date holidays, keyed by MM-DD.
var solarHolidays = map[string]string{
	"01-01": "🎊 New Year's Day",
	"02-14": "💝 Valentine's Day",
	"03-08": "🌸 International Women's Day",
	"04-30": "🇻🇳 Reunification Day",
	"05-01": "⚒️ International Labour Day",
	"06-01": "👶 International Children's Day",
	"09-02": "🇻🇳 National Day",
	"10-20": "👩 Vietnamese Women's Day",
	"11-20": "👨‍🏫 Vietnamese Teachers' Day",
	"12-24": "🎄 Christmas Eve",
	"12-25": "🎅 Christmas Day",
}

// Lunar-calendar holidays converted to solar dates, per year.
var lunarHolidays = map[int]map[string]string{
	2025: {
		"01-22": "🍲 Kitchen Gods Day (23/12 lunar)",
		"01-29": "🧧 Lunar New Year 2025",
		"01-30": "🧧 Tet, day 2",
		"01-31": "🧧 Tet, day 3",
		"02-01": "🧧 Tet, day 4",
		"02-12": "🏮 Lantern Festival (15/1 lunar)",
		"04-07": "🌺 Hung Kings Commemoration (10/3 lunar)",
		"05-31": "🥮 Doan Ngo Festival (5/5 lunar)",
		"09-06": "🕯️ Vu Lan (15/7 lunar)",
		"10-06": "🌕 Mid-Autumn Festival (15/8 lunar)",
	},
	2026: {
		"02-10": "🍲 Kitchen Gods Day (23/12 lunar)",
		"02-17": "🧧 Lunar New Year 2026",
		"02-18": "🧧 Tet, day 2",
		"02-19": "🧧 Tet, day 3",
		"02-20": "🧧 Tet, day 4",
		"03-03": "🏮 Lantern Festival (15/1 lunar)",
		"04-26": "🌺 Hung Kings Commemoration (10/3 lunar)",
		"06-19": "🥮 Doan Ngo Festival (5/5 lunar)",
		"08-27": "🕯️ Vu Lan (15/7 lunar)",
		"09-25": "🌕 Mid-Autumn Festival (15/8 lunar)",
	},
}

// Holiday is a named date.
type Holiday struct {
	Date time.Time
	Name string
}

// HolidayOn returns the holiday falling on t's date, or "".
// Fixed-date holidays win when both calendars name the same day.
func HolidayOn(t time.Time) string {
	md := MonthDay(t)
	if name, ok := solarHolidays[md]; ok {
		return name
	}
	return lunarHolidays[t.Year()][md]
}

// UpcomingHolidays lists holidays from from's date (inclusive) for days days.
func UpcomingHolidays(from time.Time, days int) []Holiday {
	day := At(from, 0, 0)
	var out []Holiday
	for i := 0; i < days; i++ {
		d := day.AddDate(0, 0, i)
		if name := HolidayOn(d); name != "" {
			out = append(out, Holiday{Date: d, Name: name})
		}
	}
	return out
}

// DaysBetween counts whole calendar days from a to b (both truncated to midnight).
func DaysBetween(a, b time.Time) int {
	a0 := At(a, 0, 0)
	b0 := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, a.Location())
	return int(b0.Sub(a0).Round(time.Hour).Hours() / 24)
}
