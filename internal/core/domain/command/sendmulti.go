package command

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

type SendMulti struct {
	broadcaster port.Broadcaster
	command     string
	verbose     bool
}

func NewSendMulti(broadcaster port.Broadcaster, command string, verbose bool) *SendMulti {
	return &SendMulti{broadcaster: broadcaster, command: command, verbose: verbose}
}

func (s *SendMulti) GetCommand() string {
	return s.command
}

const sentSummary = "✓ Sent to %d groups!"

func (s *SendMulti) Respond(ctx context.Context, caller domain.Caller,
	cmd domain.ParsedCommand) (domain.Outcome, error) {
	l := log.With().
		Int64("callerId", int64(caller)).
		Str("command", s.GetCommand()).
		Logger()

	req, err := domain.NewBroadcastRequest(cmd.Targets, cmd.Text)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("invalid broadcast request: %w", err)
	}

	l.Info().Int("targets", req.Len()).Msg("handling request")

	deliveries := s.broadcaster.Run(ctx, req)
	delivered, failed := domain.Tally(deliveries)

	l.Info().Int("delivered", delivered).Int("failed", failed).Msg("broadcast finished")

	return domain.Reply(summarize(deliveries, s.verbose), domain.EffectBroadcastStarted), nil
}

func summarize(deliveries []domain.Delivery, verbose bool) string {
	delivered, failed := domain.Tally(deliveries)

	sb := &strings.Builder{}
	fmt.Fprintf(sb, sentSummary, delivered)

	if !verbose || failed == 0 {
		return sb.String()
	}

	fmt.Fprintf(sb, "\n❌ Failed (%d):", failed)
	for _, d := range deliveries {
		if !d.Delivered() {
			fmt.Fprintf(sb, "\n• %s: %s", d.Target, d.Err)
		}
	}

	return sb.String()
}
