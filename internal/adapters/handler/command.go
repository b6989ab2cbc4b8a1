package handler

import (
	"context"
	"errors"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type Dispatcher interface {
	Handle(ctx context.Context, msg *domain.Message) (domain.Outcome, bool)
}

type Command struct {
	dispatcher Dispatcher
	replier    port.Replier
	timeout    time.Duration
}

// NewCommand wires inbound Telegram text messages to the dispatcher. timeout
// bounds the delivery of each response, not the command itself.
func NewCommand(dispatcher Dispatcher, replier port.Replier, timeout time.Duration) *Command {
	return &Command{dispatcher: dispatcher, replier: replier, timeout: timeout}
}

func (c *Command) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	msg := &domain.Message{
		ID:       update.Message.ID,
		ChatID:   update.Message.Chat.ID,
		Caller:   domain.Caller(update.Message.From.ID),
		Username: getUserNameOrFirstName(update.Message.From),
		Text:     update.Message.Text,
	}

	log.Debug().Str("message", msg.Text).Str("from", msg.Username).Msg("received message")

	// commands run to completion even when the bot is shutting down
	go c.respond(context.WithoutCancel(ctx), msg)
}

func (c *Command) respond(ctx context.Context, msg *domain.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Int64("callerId", int64(msg.Caller)).
				Msg("recovered from panic while responding")
		}
	}()

	out, ok := c.dispatcher.Handle(ctx, msg)
	if !ok {
		return
	}

	for _, text := range out.Responses {
		if err := c.deliver(ctx, msg, text); err != nil {
			log.Err(err).Int64("callerId", int64(msg.Caller)).Msg("failed to deliver response")
			return
		}
	}
}

// deliver replies in the originating chat and falls back to a direct message
// once.
func (c *Command) deliver(ctx context.Context, msg *domain.Message, text string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	replyErr := c.replier.SendMessageReply(ctx, msg, text)
	if replyErr == nil {
		return nil
	}

	log.Warn().Err(replyErr).Int64("chatId", msg.ChatID).Msg("reply failed, sending direct message")

	directErr := c.replier.SendDirect(ctx, msg.Caller, text)
	if directErr == nil {
		return nil
	}

	return errors.Join(replyErr, directErr)
}

func getUserNameOrFirstName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
