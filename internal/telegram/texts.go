package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// UI texts in English
const (
	startText = "✅ <b>Ready!</b>\n\n"
	stopText  = "🛑 <b>Reminders are off.</b>\nSend /start to turn them back on."
	helpText  = "🤖 <b>Routine assistant</b>\n" +
		"━━━━━━━━━━━━━━━━━━━━\n" +
		"• /start : turn reminders on\n" +
		"• /overview : show your schedule\n" +
		"• /settings : edit times, intervals and windows\n" +
		"• /presets : apply a ready-made routine\n" +
		"• /water : water menu\n" +
		"• /dates : holidays and important dates\n" +
		"• /cancel : cancel the current input\n" +
		"• /stop : turn reminders off\n"
	unknownText   = "📌 I didn't get that. Send /help to see the commands.\n\n"
	cancelledText = "✅ Input cancelled."
	errorText     = "⚠️ Something went wrong, please try again."

	waterMenuTitle = "💧 <b>Water today</b>\n\n"
	datesMenuText  = "📅 <b>Dates</b>\n\nChoose an option:"
	settingsText   = "⚙️ <b>Schedule</b>\n\nTap a reminder to switch it on or off, " +
		"🕘 to change its time or window, ⏲️ to change its interval."
	presetsText = "🗂 <b>Presets</b>\n\nA preset replaces your whole schedule at once. " +
		"Interval reminders restart counting from now."

	addDatePrompt = "➕ <b>Add an important date</b>\n\n" +
		"Send it as:\n" +
		"• <code>MM-DD description</code>\n" +
		"Examples:\n" +
		"• <code>03-15 Mom's birthday</code>\n" +
		"• <code>12-01 Wedding anniversary</code>\n\n" +
		"Send /cancel to stop."
	addDateBadFormat = "⚠️ Wrong format. Example: <code>03-15 Mom's birthday</code>\nSend /cancel to stop."
	addDateNoDesc    = "⚠️ The description is missing. Example: <code>03-15 Mom's birthday</code>"

	timePrompt     = "🕘 Send the new time for <b>%s</b> as HH:MM (e.g. 07:30)."
	intervalPrompt = "⏲️ Send the new interval for <b>%s</b> in minutes or like 1h30m (%d–%d min)."
	windowPrompt   = "🕘 Send the active window for <b>%s</b> as HH:MM-HH:MM (e.g. 08:00-22:00). " +
		"A window ending before it starts runs past midnight."
	badTimeText     = "⚠️ Invalid time. Example: 07:30"
	badIntervalText = "⚠️ Invalid interval. Examples: 45, 90m, 1h30m"
	badWindowText   = "⚠️ Invalid window. Example: 08:00-22:00"
)

// Callback data
const (
	cbToggleBot    = "TOGGLE_BOT"
	cbOverview     = "SHOW_OVERVIEW"
	cbWaterMenu    = "WATER_MENU"
	cbDrank250     = "DRANK_250"
	cbDrank500     = "DRANK_500"
	cbWaterReset   = "WATER_RESET"
	cbDatesMenu    = "DATES_MENU"
	cbViewHolidays = "VIEW_HOLIDAYS"
	cbMyDates      = "MY_DATES"
	cbAddDate      = "ADD_DATE"
	cbSettings     = "SETTINGS"
	cbPresets      = "PRESETS"
	cbBack         = "BACK"

	prefixToggle   = "toggle:"
	prefixPreset   = "preset:"
	prefixTime     = "settime:"
	prefixInterval = "setinterval:"
	prefixWindow   = "setwindow:"
)

func onOff(on bool, icon string) string {
	if on {
		return icon
	}
	return "❌"
}

// mainKeyboard is attached to overviews and to the wake/sleep reminders.
func mainKeyboard(u domain.User) tgbotapi.InlineKeyboardMarkup {
	bot := "🔴"
	if u.Enabled {
		bot = "🟢"
	}
	water := u.Intervals[domain.Water]
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(bot+" Bot", cbToggleBot),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s Water %d%%", onOff(water.Enabled, "💧"), u.Water.Percent()), cbWaterMenu),
			tgbotapi.NewInlineKeyboardButtonData(onOff(u.Points[domain.Sleep].Enabled, "🌙")+" Sleep", prefixToggle+string(domain.Sleep)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(u.Points[domain.Wake].Enabled, "🌅")+" Morning", prefixToggle+string(domain.Wake)),
			tgbotapi.NewInlineKeyboardButtonData("📅 Dates", cbDatesMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Schedule", cbSettings),
			tgbotapi.NewInlineKeyboardButtonData("🗂 Presets", cbPresets),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Overview", cbOverview),
		),
	)
}

func waterKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💧 Drank 250ml", cbDrank250)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💧 Drank 500ml", cbDrank500)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔄 Reset today", cbWaterReset)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbBack)),
	)
}

func datesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📅 Upcoming holidays", cbViewHolidays)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Add important date", cbAddDate)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 My dates", cbMyDates)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbBack)),
	)
}

// settingsKeyboard has one row per catalog entry.
func settingsKeyboard(u domain.User) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, def := range domain.Catalog {
		c := string(def.Category)
		switch def.Kind {
		case domain.KindPoint:
			p := u.Points[def.Category]
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s %s", onOff(p.Enabled, "✅"), def.Title, p.Time), prefixToggle+c),
				tgbotapi.NewInlineKeyboardButtonData("🕘", prefixTime+c),
			))
		case domain.KindInterval:
			is := u.Intervals[def.Category]
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s /%dm", onOff(is.Enabled, "✅"), def.Title, is.IntervalMinutes), prefixToggle+c),
				tgbotapi.NewInlineKeyboardButtonData("⏲️", prefixInterval+c),
				tgbotapi.NewInlineKeyboardButtonData("🕘", prefixWindow+c),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbBack)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func presetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range domain.Presets() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Title, prefixPreset+p.Name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbBack)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
