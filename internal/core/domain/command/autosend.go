package command

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"

	"github.com/rs/zerolog/log"
)

type AutoSend struct {
	jobs    port.JobScheduler
	wizard  port.WizardStarter
	command string
}

// NewAutoSend handles "/autosend targets|interval|message". A bare
// "/autosend" starts the wizard when one is given.
func NewAutoSend(jobs port.JobScheduler, wizard port.WizardStarter, command string) *AutoSend {
	return &AutoSend{jobs: jobs, wizard: wizard, command: command}
}

func (a *AutoSend) GetCommand() string {
	return a.command
}

func (a *AutoSend) Respond(_ context.Context, caller domain.Caller, cmd domain.ParsedCommand) (domain.Outcome, error) {
	l := log.With().
		Int64("callerId", int64(caller)).
		Str("command", a.GetCommand()).
		Logger()

	if cmd.Wizard {
		if a.wizard == nil {
			return domain.Reply("❌ Format: "+domain.KindAutoSend.Usage(), domain.EffectNone), nil
		}

		l.Info().Msg("starting wizard")
		return domain.Reply(a.wizard.Start(caller, cmd.ChatID), domain.EffectNone), nil
	}

	req, err := domain.NewBroadcastRequest(cmd.Targets, cmd.Text)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("invalid auto-send request: %w", err)
	}

	job, err := a.jobs.Create(caller, req, cmd.Interval)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to create auto-send job: %w", err)
	}

	l.Info().Str("job", job.ShortID()).Msg("auto-send job created")

	return domain.Reply(domain.AutoSendStarted(job), domain.EffectJobCreated), nil
}
