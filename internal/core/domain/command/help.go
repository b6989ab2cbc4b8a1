package command

import (
	"context"
	"groupcast/internal/core/domain"
)

type Help struct {
	command string
}

func NewHelp(command string) *Help {
	return &Help{command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

const helpText = `🤖 Commands

/send <target> <message>
  send one message to one group
/sendmulti @g1 @g2|<message>
  send one message to several groups
/autosend @g1 @g2|<interval>|<message>
  repeat a message every interval (30s, 5m, 4h)
/autosend
  set up an auto-send step by step
/jobs
  list running auto-send jobs
/stop <id>
  stop one auto-send job
/stoptimers
  stop all auto-send jobs
/cancel
  abort the step by step setup
/has
  list joined groups and channels
/stats
  account info

Targets are @usernames or numeric chat ids.`

func (h *Help) Respond(_ context.Context, _ domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	return domain.Reply(helpText, domain.EffectNone), nil
}
