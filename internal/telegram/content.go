package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// reminderVariants holds the copy for each category; one is picked at random.
var reminderVariants = map[domain.Category][]string{
	domain.Sleep: {
		"🌙 <b>Time for bed!</b>\n\n💤 Put the phone away\n📖 Read or listen to something calm\n🧘 Breathe slowly and relax\n\nSleep well! 😴",
		"🌙 <b>Lights out soon.</b>\nA steady bedtime is the cheapest health upgrade there is. Good night! 😴",
		"😴 <b>Bedtime.</b> Screens off, tomorrow will thank you.",
	},
	domain.WorkStart: {
		"💼 <b>Work starts now.</b> Pick the one task that matters most today.",
		"💼 <b>Good morning, let's go!</b> Close the distractions and start with something small.",
	},
	domain.WorkEnd: {
		"🏁 <b>Work is over.</b> Write down tomorrow's first task and log off.",
		"🏁 <b>Done for today!</b> Step away from the desk, you earned it.",
	},
	domain.Breakfast: {
		"🍳 <b>Breakfast time.</b> Something with protein keeps you going until lunch.",
		"🥣 <b>Don't skip breakfast!</b>",
	},
	domain.Lunch: {
		"🍱 <b>Lunch time.</b> Eat away from the screen if you can.",
		"🥗 <b>Time for lunch!</b> A short walk after helps the afternoon.",
	},
	domain.Dinner: {
		"🍲 <b>Dinner time.</b> Keep it light if bedtime is close.",
		"🍽 <b>Time for dinner!</b>",
	},
	domain.Exercise: {
		"🏃 <b>Time to move!</b> Even 15 minutes counts.",
		"💪 <b>Workout time.</b> Warm up first, then go.",
	},
	domain.Break: {
		"☕ <b>Take a break.</b> Stand up, stretch, refill your water.",
		"🚶 <b>Break time!</b> Walk around for five minutes.",
	},
	domain.Eye: {
		"👀 <b>Eye break:</b> look at something 6 metres away for 20 seconds.",
		"👁 <b>Rest your eyes.</b> Blink slowly a few times and look out the window.",
	},
	domain.Posture: {
		"🧍 <b>Posture check!</b> Shoulders back, feet flat, screen at eye level.",
		"🪑 <b>Sit up straight.</b> Relax your neck and shoulders.",
	},
}

// reminderText renders the message for one reminder.
func (r *Router) reminderText(u domain.User, c domain.Category, now time.Time) string {
	switch c {
	case domain.Wake:
		return morningGreeting(u, now)
	case domain.Water:
		return waterReminder(u, now)
	}
	variants := reminderVariants[c]
	if len(variants) == 0 {
		def, _ := domain.Lookup(c)
		return "⏰ <b>" + html.EscapeString(def.Title) + "</b>"
	}
	return variants[r.pick(len(variants))]
}

func currentWater(u domain.User, now time.Time) domain.WaterLog {
	w := u.Water
	w.ResetIfNewDay(now)
	return w
}

// formatML formats a water amount with thousands separators.
func formatML(n int) string {
	return humanize.Comma(int64(n))
}

func waterReminder(u domain.User, now time.Time) string {
	w := currentWater(u, now)
	return "💧 <b>Time to drink water!</b>\n\n" +
		fmt.Sprintf("🎯 Goal today: <b>%sml</b>\n", formatML(w.GoalML)) +
		fmt.Sprintf("✅ Drunk: <b>%sml</b>\n", formatML(w.DrunkML)) +
		fmt.Sprintf("📊 Remaining: <b>%sml</b>\n\n", formatML(w.Remaining())) +
		"Tap a button below after drinking! 👇"
}

func morningGreeting(u domain.User, now time.Time) string {
	var b strings.Builder
	b.WriteString("🌅 <b>GOOD MORNING!</b>\n\n")
	fmt.Fprintf(&b, "📅 Today: <b>%s</b>\n", now.Format("02/01/2006"))
	fmt.Fprintf(&b, "📆 <b>%s</b>\n\n", now.Weekday())

	if h := domain.HolidayOn(now); h != "" {
		fmt.Fprintf(&b, "🎉 <b>%s</b>\n\n", h)
	}
	if desc, ok := u.ImportantDates[domain.MonthDay(now)]; ok {
		fmt.Fprintf(&b, "⭐ <b>%s</b>\n\n", html.EscapeString(desc))
	}

	var future []domain.Holiday
	for _, h := range domain.UpcomingHolidays(now, 7) {
		if domain.DaysBetween(now, h.Date) > 0 {
			future = append(future, h)
		}
	}
	if len(future) > 0 {
		b.WriteString("📌 <b>Coming up:</b>\n")
		for _, h := range future[:min(3, len(future))] {
			fmt.Fprintf(&b, "• %s (in %d days)\n", h.Name, domain.DaysBetween(now, h.Date))
		}
		b.WriteString("\n")
	}

	b.WriteString("💪 Have a great day!\n")
	b.WriteString("💧 Remember to drink enough water!")
	return b.String()
}

// overview renders the user's whole schedule.
func overview(u domain.User, now time.Time) string {
	var b strings.Builder
	status := "🔴 OFF"
	if u.Enabled {
		status = "🟢 ON"
	}
	b.WriteString("🤖 <b>ROUTINE ASSISTANT</b>\n\n")
	fmt.Fprintf(&b, "📊 <b>Status:</b> %s\n", status)
	fmt.Fprintf(&b, "🕐 <b>Now:</b> <code>%s</code>\n\n", now.Format("15:04 • 02/01/2006"))

	w := currentWater(u, now)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("<b>💧 WATER TODAY</b>\n")
	fmt.Fprintf(&b, "• Drunk: <b>%sml / %sml</b> (%d%%)\n", formatML(w.DrunkML), formatML(w.GoalML), w.Percent())
	fmt.Fprintf(&b, "• Remaining: <b>%sml</b>\n", formatML(w.Remaining()))

	b.WriteString("\n━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("<b>⏰ DAILY</b>\n")
	for _, c := range domain.Categories(domain.KindPoint) {
		def, _ := domain.Lookup(c)
		p := u.Points[c]
		if !p.Enabled {
			fmt.Fprintf(&b, "• %s: <b>off</b>\n", def.Title)
			continue
		}
		suffix := ""
		if def.WorkdaysOnly {
			suffix = " (" + workDaysLabel(u.WorkDays) + ")"
		}
		fmt.Fprintf(&b, "• %s: <b>%s</b>%s\n", def.Title, p.Time, suffix)
	}

	b.WriteString("\n━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("<b>🔁 REPEATING</b>\n")
	for _, c := range domain.Categories(domain.KindInterval) {
		def, _ := domain.Lookup(c)
		is := u.Intervals[c]
		if !is.Enabled {
			fmt.Fprintf(&b, "• %s: <b>off</b>\n", def.Title)
			continue
		}
		fmt.Fprintf(&b, "• %s: every <b>%dm</b>, %s–%s\n", def.Title, is.IntervalMinutes, is.WindowStart, is.WindowEnd)
	}

	b.WriteString("\n━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("<b>📅 IMPORTANT DATES</b>\n")
	fmt.Fprintf(&b, "• Saved: <b>%d</b>\n", len(u.ImportantDates))
	return b.String()
}

func workDaysLabel(days []time.Weekday) string {
	if len(days) == 0 {
		return "no work days"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, domain.ShortWeekday(d))
	}
	return strings.Join(names, ", ")
}

func waterMenu(u domain.User, now time.Time) string {
	w := currentWater(u, now)
	return waterMenuTitle +
		fmt.Sprintf("📊 Progress: <b>%d%%</b>\n", w.Percent()) +
		fmt.Sprintf("✅ Drunk: <b>%sml</b>\n", formatML(w.DrunkML)) +
		fmt.Sprintf("🎯 Goal: <b>%sml</b>\n\n", formatML(w.GoalML)) +
		"Tap after drinking:"
}

func holidaysMessage(now time.Time) string {
	upcoming := domain.UpcomingHolidays(now, 60)
	var b strings.Builder
	b.WriteString("📅 <b>UPCOMING HOLIDAYS</b>\n\n")
	if len(upcoming) == 0 {
		b.WriteString("⚠️ No holidays in the next 60 days.\n")
		return b.String()
	}
	for _, h := range upcoming[:min(10, len(upcoming))] {
		var when string
		switch n := domain.DaysBetween(now, h.Date); n {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		default:
			when = fmt.Sprintf("in %d days", n)
		}
		fmt.Fprintf(&b, "• %s\n  📆 %s (%s)\n\n", h.Name, h.Date.Format("02/01/2006"), when)
	}
	return b.String()
}

func myDatesMessage(u domain.User) string {
	const title = "📋 <b>YOUR IMPORTANT DATES</b>\n\n"
	if len(u.ImportantDates) == 0 {
		return title + "⚠️ You haven't saved any dates yet."
	}
	keys := make([]string, 0, len(u.ImportantDates))
	for k := range u.ImportantDates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(title)
	for _, k := range keys {
		fmt.Fprintf(&b, "• <b>%s</b>: %s\n", k, html.EscapeString(u.ImportantDates[k]))
	}
	b.WriteString("\n\nTip: adding the same <code>MM-DD</code> again overwrites it.")
	return b.String()
}

// splitText cuts text into chunks of at most limit runes.
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var out []string
	for len(runes) > 0 {
		n := min(limit, len(runes))
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
