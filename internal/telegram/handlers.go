package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// --- Generic helpers ---

// reply sends an HTML message; a nil markup sends plain text without a keyboard.
func (r *Router) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// patch runs fn against the user's record and reports failures to the chat.
func (r *Router) patch(ctx context.Context, chatID int64, op string, fn func(u *domain.User) error) (domain.User, bool) {
	u, err := r.store.Patch(ctx, chatID, fn)
	if err != nil {
		if isInputError(err) {
			r.reply(chatID, "⚠️ "+html.EscapeString(err.Error()), nil)
			return u, false
		}
		r.log.Error(op+" failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.reply(chatID, errorText, nil)
		return u, false
	}
	return u, true
}

func (r *Router) ensure(ctx context.Context, chatID int64) (domain.User, bool) {
	return r.patch(ctx, chatID, "ensure user", nil)
}

// --- Core commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	r.clearPending(chatID)
	u, ok := r.patch(ctx, chatID, "start", func(u *domain.User) error {
		u.Enabled = true
		return nil
	})
	if !ok {
		return
	}
	r.reply(chatID, startText+overview(u, r.clock.Now()), mainKeyboard(u))
}

func (r *Router) handleStop(ctx context.Context, chatID int64) {
	r.clearPending(chatID)
	u, ok := r.patch(ctx, chatID, "stop", func(u *domain.User) error {
		u.Enabled = false
		return nil
	})
	if !ok {
		return
	}
	r.reply(chatID, stopText, mainKeyboard(u))
}

func (r *Router) handleHelp(_ context.Context, chatID int64) {
	r.reply(chatID, helpText, nil)
}

func (r *Router) handleOverview(ctx context.Context, chatID int64) {
	u, ok := r.ensure(ctx, chatID)
	if !ok {
		return
	}
	r.reply(chatID, overview(u, r.clock.Now()), mainKeyboard(u))
}

func (r *Router) handleCancel(_ context.Context, chatID int64) {
	r.clearPending(chatID)
	r.reply(chatID, cancelledText, nil)
}

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	u, ok := r.ensure(ctx, chatID)
	if !ok {
		return
	}
	r.reply(chatID, settingsText, settingsKeyboard(u))
}

func (r *Router) handlePresets(ctx context.Context, chatID int64) {
	if _, ok := r.ensure(ctx, chatID); !ok {
		return
	}
	var b strings.Builder
	b.WriteString(presetsText)
	b.WriteString("\n\n")
	for _, p := range domain.Presets() {
		fmt.Fprintf(&b, "• <b>%s</b>\n", p.Title)
	}
	r.reply(chatID, b.String(), presetsKeyboard())
}

// --- Toggles ---

func (r *Router) toggleBot(ctx context.Context, chatID int64, cbID string) {
	u, ok := r.patch(ctx, chatID, "toggle bot", func(u *domain.User) error {
		u.Enabled = !u.Enabled
		return nil
	})
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, "Bot "+onOffWord(u.Enabled))
	r.reply(chatID, overview(u, r.clock.Now()), mainKeyboard(u))
}

func (r *Router) toggleCategory(ctx context.Context, chatID int64, c domain.Category, cbID string) {
	def, known := domain.Lookup(c)
	if !known {
		_ = r.answerCallback(cbID, "Not supported")
		return
	}
	now := r.clock.Now()
	u, ok := r.patch(ctx, chatID, "toggle category", func(u *domain.User) error {
		return u.SetCategoryEnabled(c, !u.CategoryEnabled(c), now)
	})
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, def.Title+" "+onOffWord(u.CategoryEnabled(c)))
	r.reply(chatID, settingsText, settingsKeyboard(u))
}

func onOffWord(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (r *Router) applyPreset(ctx context.Context, chatID int64, name, cbID string) {
	p, err := domain.LookupPreset(name)
	if err != nil {
		_ = r.answerCallback(cbID, "Unknown preset")
		return
	}
	now := r.clock.Now()
	u, ok := r.patch(ctx, chatID, "apply preset", func(u *domain.User) error {
		u.ApplyPreset(p, now)
		return nil
	})
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, p.Title)
	r.log.Info("preset applied", zap.Int64("chatID", chatID), zap.String("preset", p.Name))
	r.reply(chatID, "✅ Preset applied: <b>"+p.Title+"</b>\n\n"+overview(u, now), mainKeyboard(u))
}

// --- Water ---

func (r *Router) handleWaterMenu(ctx context.Context, chatID int64) {
	u, ok := r.ensure(ctx, chatID)
	if !ok {
		return
	}
	r.reply(chatID, waterMenu(u, r.clock.Now()), waterKeyboard())
}

func (r *Router) drink(ctx context.Context, chatID int64, ml int, cbID string) {
	now := r.clock.Now()
	u, ok := r.patch(ctx, chatID, "record drink", func(u *domain.User) error {
		u.RecordDrink(ml, now)
		return nil
	})
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, fmt.Sprintf("+%dml 💧", ml))
	w := currentWater(u, now)
	text := fmt.Sprintf("✅ <b>+%dml</b>\n\n", ml) + waterMenu(u, now)
	if w.Remaining() == 0 {
		text = fmt.Sprintf("🎉 <b>+%dml, goal reached!</b>\n\n", ml) + waterMenu(u, now)
	}
	r.reply(chatID, text, waterKeyboard())
}

func (r *Router) resetWater(ctx context.Context, chatID int64, cbID string) {
	now := r.clock.Now()
	u, ok := r.patch(ctx, chatID, "reset water", func(u *domain.User) error {
		u.Water.ResetIfNewDay(now)
		u.Water.Reset()
		return nil
	})
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, "🔄")
	r.reply(chatID, waterMenu(u, now), waterKeyboard())
}

// --- Dates ---

func (r *Router) handleDatesMenu(ctx context.Context, chatID int64) {
	if _, ok := r.ensure(ctx, chatID); !ok {
		return
	}
	r.reply(chatID, datesMenuText, datesKeyboard())
}

func (r *Router) showMyDates(ctx context.Context, chatID int64, cbID string) {
	u, ok := r.ensure(ctx, chatID)
	if !ok {
		_ = r.answerCallback(cbID, "Error")
		return
	}
	_ = r.answerCallback(cbID, "📋")
	r.reply(chatID, myDatesMessage(u), datesKeyboard())
}

func (r *Router) addDate(ctx context.Context, chatID int64, text string) {
	key, desc, err := domain.ParseMonthDay(text)
	if err != nil {
		r.reply(chatID, addDateBadFormat, nil)
		return
	}
	if desc == "" {
		r.reply(chatID, addDateNoDesc, nil)
		return
	}
	r.clearPending(chatID)
	if _, ok := r.patch(ctx, chatID, "add date", func(u *domain.User) error {
		u.ImportantDates[key] = desc
		return nil
	}); !ok {
		return
	}
	r.reply(chatID, "✅ Saved: <b>"+key+"</b> "+html.EscapeString(desc), datesKeyboard())
}

// --- Schedule edits ---

// askCategoryInput starts a pending flow for a category-bound edit.
func (r *Router) askCategoryInput(chatID int64, c domain.Category, pending, cbID string) {
	def, ok := domain.Lookup(c)
	want := domain.KindInterval
	if pending == pendingTime {
		want = domain.KindPoint
	}
	if !ok || def.Kind != want {
		_ = r.answerCallback(cbID, "Not supported")
		return
	}
	_ = r.answerCallback(cbID, "")
	r.setPending(chatID, pending+string(c))

	var prompt string
	switch pending {
	case pendingTime:
		prompt = fmt.Sprintf(timePrompt, def.Title)
	case pendingInterval:
		prompt = fmt.Sprintf(intervalPrompt, def.Title, domain.MinIntervalMinutes, domain.MaxIntervalMinutes)
	default:
		prompt = fmt.Sprintf(windowPrompt, def.Title)
	}
	r.reply(chatID, prompt+"\nSend /cancel to stop.", nil)
}

func (r *Router) setTime(ctx context.Context, chatID int64, c domain.Category, text string) {
	if _, _, err := domain.ParseClock(text); err != nil {
		r.reply(chatID, badTimeText, nil)
		return
	}
	r.clearPending(chatID)
	r.saveSchedule(ctx, chatID, "set time", func(u *domain.User) error {
		return u.SetPointTime(c, text)
	})
}

func (r *Router) setInterval(ctx context.Context, chatID int64, c domain.Category, text string) {
	mins, err := domain.ParseIntervalMinutes(text)
	if err != nil {
		r.reply(chatID, badIntervalText, nil)
		return
	}
	r.clearPending(chatID)
	r.saveSchedule(ctx, chatID, "set interval", func(u *domain.User) error {
		return u.SetInterval(c, mins)
	})
}

func (r *Router) setWindow(ctx context.Context, chatID int64, c domain.Category, text string) {
	start, end, err := domain.ParseWindow(text)
	if err != nil {
		r.reply(chatID, badWindowText, nil)
		return
	}
	r.clearPending(chatID)
	r.saveSchedule(ctx, chatID, "set window", func(u *domain.User) error {
		return u.SetWindow(c, start, end)
	})
}

func (r *Router) saveSchedule(ctx context.Context, chatID int64, op string, fn func(u *domain.User) error) {
	u, ok := r.patch(ctx, chatID, op, fn)
	if !ok {
		return
	}
	r.reply(chatID, "✅ Saved.\n\n"+settingsText, settingsKeyboard(u))
}

// --- Free-form dispatcher (for all pending inputs) ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	pending := r.getPending(chatID)
	switch {
	case pending == pendingAddDate:
		r.addDate(ctx, chatID, text)
	case strings.HasPrefix(pending, pendingTime):
		r.setTime(ctx, chatID, domain.Category(strings.TrimPrefix(pending, pendingTime)), text)
	case strings.HasPrefix(pending, pendingInterval):
		r.setInterval(ctx, chatID, domain.Category(strings.TrimPrefix(pending, pendingInterval)), text)
	case strings.HasPrefix(pending, pendingWindow):
		r.setWindow(ctx, chatID, domain.Category(strings.TrimPrefix(pending, pendingWindow)), text)
	default:
		r.reply(chatID, unknownText+helpText, nil)
	}
}

// isInputError reports whether err came from validating user input.
func isInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidClock) ||
		errors.Is(err, domain.ErrInvalidWindow) ||
		errors.Is(err, domain.ErrInvalidInterval)
}
