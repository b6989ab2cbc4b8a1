package sender

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

//go:generate mockery --name TelegramBot

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetMe(ctx context.Context) (*models.User, error)
}

const TelegramMessageLimit = 4096

type Telegram struct {
	bot     TelegramBot
	limiter *rate.Limiter
}

type Option func(*Telegram)

// WithRateLimit caps outgoing messages per second across every caller of the
// sender. Zero or less disables the cap.
func WithRateLimit(perSecond float64) Option {
	return func(t *Telegram) {
		if perSecond > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewTelegram(bot TelegramBot, opts ...Option) *Telegram {
	t := &Telegram{bot: bot}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Send delivers text to a chat id or "@username". Text over the message limit
// goes out as several messages.
func (t *Telegram) Send(ctx context.Context, chat any, text string) error {
	for _, chunk := range splitText(text, TelegramMessageLimit) {
		if err := t.wait(ctx); err != nil {
			return err
		}

		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chat,
			Text:   chunk,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (t *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) error {
	for _, chunk := range splitText(text, TelegramMessageLimit) {
		if err := t.wait(ctx); err != nil {
			return err
		}

		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: message.ChatID,
			Text:   chunk,
			ReplyParameters: &models.ReplyParameters{
				MessageID: message.ID,
				ChatID:    message.ChatID,
			},
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", message.ChatID).Msg("failed to send reply")
			return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}
	}

	return nil
}

func (t *Telegram) SendDirect(ctx context.Context, caller domain.Caller, text string) error {
	if err := t.Send(ctx, int64(caller), text); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}
	return nil
}

func (t *Telegram) Me(ctx context.Context) (domain.Account, error) {
	u, err := t.bot.GetMe(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	return domain.Account{ID: u.ID, FirstName: u.FirstName, Username: u.Username}, nil
}

func (t *Telegram) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// splitText cuts text into pieces of at most limit runes, preferring to break
// after a newline.
func splitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = utf8.RuneCountInString(string(runes[:limit])[:i]) + 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}
