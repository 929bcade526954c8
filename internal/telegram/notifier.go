package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// maxMessageRunes keeps messages under Telegram's 4096 limit with some headroom.
const maxMessageRunes = 3900

// Notify renders and sends one reminder. It returns when the message is sent
// or ctx is done, whichever comes first.
func (r *Router) Notify(ctx context.Context, u domain.User, c domain.Category, now time.Time) error {
	text := r.reminderText(u, c, now)

	var markup any
	switch c {
	case domain.Water:
		markup = waterKeyboard()
	case domain.Wake, domain.Sleep:
		markup = mainKeyboard(u)
	}

	chunks := splitText(text, maxMessageRunes)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(u.ChatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}
		if err := r.sendCtx(ctx, msg); err != nil {
			return fmt.Errorf("send %s to %d: %w", c, u.ChatID, err)
		}
	}
	return nil
}

// sendCtx bounds a blocking Send by ctx. The Bot API client has no context
// support, so an abandoned send may still complete in the background.
func (r *Router) sendCtx(ctx context.Context, msg tgbotapi.Chattable) error {
	done := make(chan error, 1)
	go func() {
		_, err := r.bot.Send(msg)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
