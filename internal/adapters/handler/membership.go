package handler

import (
	"context"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Membership records the groups and channels the bot belongs to. It watches
// my_chat_member updates and refreshes chats it sees messages from.
type Membership struct {
	store   port.ChatStore
	timeout time.Duration

	mu   sync.Mutex
	seen map[int64]domain.Chat
}

func NewMembership(store port.ChatStore, timeout time.Duration) *Membership {
	return &Membership{store: store, timeout: timeout, seen: make(map[int64]domain.Chat)}
}

func (m *Membership) Middleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		m.Record(ctx, update)
		next(ctx, b, update)
	}
}

func (m *Membership) Record(ctx context.Context, update *models.Update) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	switch {
	case update.MyChatMember != nil:
		chat := toChat(update.MyChatMember.Chat)
		switch update.MyChatMember.NewChatMember.Type {
		case models.ChatMemberTypeLeft, models.ChatMemberTypeBanned:
			m.remove(ctx, chat.ID)
		default:
			m.upsert(ctx, chat, true)
		}
	case update.Message != nil:
		m.upsert(ctx, toChat(update.Message.Chat), false)
	case update.ChannelPost != nil:
		m.upsert(ctx, toChat(update.ChannelPost.Chat), false)
	}
}

func (m *Membership) upsert(ctx context.Context, chat domain.Chat, force bool) {
	if chat.Kind == domain.ChatPrivate {
		return
	}

	m.mu.Lock()
	prev, ok := m.seen[chat.ID]
	unchanged := ok && prev.Title == chat.Title && prev.Username == chat.Username && prev.Kind == chat.Kind
	m.mu.Unlock()

	if unchanged && !force {
		return
	}

	if err := m.store.UpsertChat(ctx, chat); err != nil {
		log.Err(err).Int64("chatId", chat.ID).Msg("failed to record chat")
		return
	}

	m.mu.Lock()
	m.seen[chat.ID] = chat
	m.mu.Unlock()

	log.Debug().Int64("chatId", chat.ID).Str("title", chat.Title).Msg("chat recorded")
}

func (m *Membership) remove(ctx context.Context, id int64) {
	m.mu.Lock()
	delete(m.seen, id)
	m.mu.Unlock()

	if err := m.store.RemoveChat(ctx, id); err != nil {
		log.Err(err).Int64("chatId", id).Msg("failed to forget chat")
		return
	}

	log.Info().Int64("chatId", id).Msg("removed from chat")
}

func toChat(c models.Chat) domain.Chat {
	title := c.Title
	if title == "" {
		title = c.FirstName
	}

	return domain.Chat{
		ID:        c.ID,
		Kind:      domain.ChatKind(c.Type),
		Title:     title,
		Username:  c.Username,
		UpdatedAt: time.Now(),
	}
}
