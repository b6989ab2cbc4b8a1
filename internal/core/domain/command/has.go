package command

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultChunkSize keeps listing messages under Telegram's 4096 character cap.
const DefaultChunkSize = 4000

type Has struct {
	lister  port.ChatLister
	command string
	budget  int
}

func NewHas(lister port.ChatLister, command string, budget int) *Has {
	if budget <= 0 {
		budget = DefaultChunkSize
	}
	return &Has{lister: lister, command: command, budget: budget}
}

func (h *Has) GetCommand() string {
	return h.command
}

func (h *Has) Respond(ctx context.Context, caller domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	chats, err := h.lister.ListChats(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to list chats: %w", err)
	}

	log.Debug().Int64("callerId", int64(caller)).Int("chats", len(chats)).Msg("listing chats")

	if len(chats) == 0 {
		return domain.Reply("No groups or channels known yet. Add me to a group and it shows up here.",
			domain.EffectNone), nil
	}

	lines := make([]string, 0, len(chats))
	for i, c := range chats {
		lines = append(lines, formatChat(i+1, c))
	}

	header := fmt.Sprintf("📋 Groups and channels (%d):", len(chats))

	return domain.Outcome{
		Responses:  domain.ChunkLines(header, lines, h.budget),
		SideEffect: domain.EffectNone,
	}, nil
}

func formatChat(n int, c domain.Chat) string {
	parts := []string{fmt.Sprintf("%d. %s", n, c.Title)}
	if c.Handle() != "" {
		parts = append(parts, c.Handle())
	}
	parts = append(parts, fmt.Sprintf("%d", c.ID))

	return strings.Join(parts, " | ") + fmt.Sprintf(" (%s)", c.Kind)
}
