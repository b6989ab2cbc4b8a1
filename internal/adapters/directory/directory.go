package directory

import (
	"context"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var linkPrefixes = []string{"https://t.me/", "http://t.me/", "t.me/"}

// Directory turns targets into Bot API chat identifiers. Numeric targets are
// chat ids, handles are looked up in the chat store and otherwise passed
// through as "@name" for Telegram to resolve.
type Directory struct {
	store port.ChatStore
}

// New creates a directory. A nil store disables handle lookups.
func New(store port.ChatStore) *Directory {
	return &Directory{store: store}
}

func (d *Directory) Resolve(ctx context.Context, target domain.Target) (any, error) {
	s := strings.TrimSpace(string(target))
	if s == "" {
		return nil, domain.ErrEmptyTarget
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}

	for _, p := range linkPrefixes {
		if strings.HasPrefix(strings.ToLower(s), p) {
			s = s[len(p):]
			break
		}
	}

	name := strings.TrimPrefix(s, "@")
	if name == "" {
		return nil, domain.ErrEmptyTarget
	}

	if d.store != nil {
		chat, ok, err := d.store.FindByUsername(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("target", string(target)).Msg("chat lookup failed, using handle")
		} else if ok {
			return chat.ID, nil
		}
	}

	return "@" + name, nil
}

// ListChats delegates to the store.
func (d *Directory) ListChats(ctx context.Context) ([]domain.Chat, error) {
	if d.store == nil {
		return nil, nil
	}
	return d.store.ListChats(ctx)
}
