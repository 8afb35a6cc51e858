// Package notify delivers operator-facing messages to the IT team's chat.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// MaxMessageLen is Telegram's limit for a single text message.
const MaxMessageLen = 4096

// Sender delivers a plain-text message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender posts messages to a single Telegram chat.
type TelegramSender struct {
	bot    *bot.Bot
	chatID int64
}

// NewTelegramSender creates a bot client for token. The bot's identity is
// not checked at startup so an unreachable API does not block boot.
func NewTelegramSender(token string, chatID int64, opts ...bot.Option) (*TelegramSender, error) {
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSender{bot: b, chatID: chatID}, nil
}

// Send implements Sender.
func (t *TelegramSender) Send(ctx context.Context, text string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   Truncate(text, MaxMessageLen),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// Truncate shortens text to at most max runes, marking the cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	const marker = "\n\n... (truncated)"
	keep := max - len([]rune(marker))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + marker
}
