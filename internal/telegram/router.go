package telegram

import (
	"context"
	"math/rand"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/ykvlv/routine-bot/internal/domain"
	"github.com/ykvlv/routine-bot/internal/store"
)

// botAPI is the part of *tgbotapi.BotAPI the router uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Pending state keys used in conversational flows.
// Category-bound states carry the category after the prefix.
const (
	pendingAddDate  = "await_date_text"
	pendingTime     = "await_time:"
	pendingInterval = "await_interval:"
	pendingWindow   = "await_window:"
)

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot   botAPI
	log   *zap.Logger
	store *store.Store
	clock domain.Clock
	pick  func(n int) int // random variant selection

	state *xsync.MapOf[int64, string] // chatID -> pending state
}

// NewRouter creates a new Telegram router.
func NewRouter(bot botAPI, log *zap.Logger, st *store.Store, clock domain.Clock) *Router {
	return &Router{
		bot:   bot,
		log:   log,
		store: st,
		clock: clock,
		pick:  rand.Intn,
		state: xsync.NewMapOf[int64, string](),
	}
}

// setPending sets a pending state for a chat (non-persistent, in-memory).
func (r *Router) setPending(chatID int64, s string) {
	r.state.Store(chatID, s)
}

// getPending returns current pending state for a chat.
func (r *Router) getPending(chatID int64) string {
	s, _ := r.state.Load(chatID)
	return s
}

// clearPending clears a pending state for a chat.
func (r *Router) clearPending(chatID int64) {
	r.state.Delete(chatID)
}

// command matches "/name", "/name@bot" and the bare word "name".
func command(text, name string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == name {
		return true
	}
	if !strings.HasPrefix(t, "/"+name) {
		return false
	}
	rest := t[len(name)+1:]
	return rest == "" || strings.HasPrefix(rest, "@") || strings.HasPrefix(rest, " ")
}

// HandleUpdate routes a single update to appropriate handler.
// A panic while handling one update is logged and does not stop polling.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("update handler panicked", zap.Any("panic", rec), zap.Int("updateID", upd.UpdateID))
		}
	}()

	// Text messages
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case command(text, "start"):
			r.handleStart(ctx, chatID)
		case command(text, "stop"):
			r.handleStop(ctx, chatID)
		case command(text, "help"):
			r.handleHelp(ctx, chatID)
		case command(text, "overview"), command(text, "status"):
			r.handleOverview(ctx, chatID)
		case command(text, "water"):
			r.handleWaterMenu(ctx, chatID)
		case command(text, "dates"):
			r.handleDatesMenu(ctx, chatID)
		case command(text, "settings"):
			r.handleSettings(ctx, chatID)
		case command(text, "presets"):
			r.handlePresets(ctx, chatID)
		case command(text, "cancel"):
			r.handleCancel(ctx, chatID)
		default:
			// Free-form text used in pending flows (dates/time/interval/window)
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	// Callback queries (inline buttons)
	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil {
			_ = r.answerCallback(cb.ID, "Missing chat")
			return
		}
		r.handleCallback(ctx, cb.Message.Chat.ID, strings.TrimSpace(cb.Data), cb.ID)
	}
}

func (r *Router) handleCallback(ctx context.Context, chatID int64, data, cbID string) {
	switch {
	case data == cbToggleBot:
		r.toggleBot(ctx, chatID, cbID)
	case data == cbOverview:
		_ = r.answerCallback(cbID, "📊")
		r.handleOverview(ctx, chatID)
	case data == cbBack:
		_ = r.answerCallback(cbID, "⬅️")
		r.clearPending(chatID)
		r.handleOverview(ctx, chatID)

	// Water
	case data == cbWaterMenu:
		_ = r.answerCallback(cbID, "💧")
		r.handleWaterMenu(ctx, chatID)
	case data == cbDrank250:
		r.drink(ctx, chatID, 250, cbID)
	case data == cbDrank500:
		r.drink(ctx, chatID, 500, cbID)
	case data == cbWaterReset:
		r.resetWater(ctx, chatID, cbID)

	// Dates
	case data == cbDatesMenu:
		_ = r.answerCallback(cbID, "📅")
		r.clearPending(chatID)
		r.handleDatesMenu(ctx, chatID)
	case data == cbViewHolidays:
		_ = r.answerCallback(cbID, "📅")
		r.reply(chatID, holidaysMessage(r.clock.Now()), datesKeyboard())
	case data == cbMyDates:
		r.showMyDates(ctx, chatID, cbID)
	case data == cbAddDate:
		_ = r.answerCallback(cbID, "➕")
		r.setPending(chatID, pendingAddDate)
		r.reply(chatID, addDatePrompt, datesKeyboard())

	// Schedule
	case data == cbSettings:
		_ = r.answerCallback(cbID, "⚙️")
		r.handleSettings(ctx, chatID)
	case data == cbPresets:
		_ = r.answerCallback(cbID, "🗂")
		r.handlePresets(ctx, chatID)
	case strings.HasPrefix(data, prefixPreset):
		r.applyPreset(ctx, chatID, strings.TrimPrefix(data, prefixPreset), cbID)
	case strings.HasPrefix(data, prefixToggle):
		r.toggleCategory(ctx, chatID, domain.Category(strings.TrimPrefix(data, prefixToggle)), cbID)
	case strings.HasPrefix(data, prefixTime):
		r.askCategoryInput(chatID, domain.Category(strings.TrimPrefix(data, prefixTime)), pendingTime, cbID)
	case strings.HasPrefix(data, prefixInterval):
		r.askCategoryInput(chatID, domain.Category(strings.TrimPrefix(data, prefixInterval)), pendingInterval, cbID)
	case strings.HasPrefix(data, prefixWindow):
		r.askCategoryInput(chatID, domain.Category(strings.TrimPrefix(data, prefixWindow)), pendingWindow, cbID)

	default:
		_ = r.answerCallback(cbID, "Not supported")
	}
}
