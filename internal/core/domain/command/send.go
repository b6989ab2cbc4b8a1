package command

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

type Send struct {
	broadcaster port.Broadcaster
	command     string
	verbose     bool
}

// NewSend handles "/send <target> <message>". With verbose set, failures
// include the reason.
func NewSend(broadcaster port.Broadcaster, command string, verbose bool) *Send {
	return &Send{broadcaster: broadcaster, command: command, verbose: verbose}
}

func (s *Send) GetCommand() string {
	return s.command
}

func (s *Send) Respond(ctx context.Context, caller domain.Caller, cmd domain.ParsedCommand) (domain.Outcome, error) {
	l := log.With().
		Int64("callerId", int64(caller)).
		Str("command", s.GetCommand()).
		Logger()

	req, err := domain.NewBroadcastRequest(cmd.Targets, cmd.Text)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("invalid send request: %w", err)
	}

	l.Info().Int("targets", req.Len()).Msg("handling request")

	deliveries := s.broadcaster.Run(ctx, req)

	var lines []string
	for _, d := range deliveries {
		if d.Delivered() {
			lines = append(lines, fmt.Sprintf("✓ Message sent to %s", d.Target))
			continue
		}
		if s.verbose {
			lines = append(lines, fmt.Sprintf("❌ Failed to send to %s: %s", d.Target, d.Err))
		} else {
			lines = append(lines, fmt.Sprintf("❌ Failed to send to %s", d.Target))
		}
	}

	return domain.Reply(strings.Join(lines, "\n"), domain.EffectBroadcastStarted), nil
}
