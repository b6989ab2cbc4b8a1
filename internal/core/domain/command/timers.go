package command

import (
	"context"
	"errors"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strings"
	"unicode/utf8"
)

type StopTimers struct {
	jobs    port.JobScheduler
	command string
}

func NewStopTimers(jobs port.JobScheduler, command string) *StopTimers {
	return &StopTimers{jobs: jobs, command: command}
}

func (s *StopTimers) GetCommand() string {
	return s.command
}

func (s *StopTimers) Respond(_ context.Context, _ domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	s.jobs.CancelAll()
	return domain.Reply(domain.ResponseTimersStopped, domain.EffectJobsCleared), nil
}

type StopJob struct {
	jobs    port.JobScheduler
	command string
}

func NewStopJob(jobs port.JobScheduler, command string) *StopJob {
	return &StopJob{jobs: jobs, command: command}
}

func (s *StopJob) GetCommand() string {
	return s.command
}

func (s *StopJob) Respond(_ context.Context, _ domain.Caller, cmd domain.ParsedCommand) (domain.Outcome, error) {
	if len(cmd.Args) == 0 {
		return domain.Reply("❌ Usage: "+domain.KindStop.Usage(), domain.EffectNone), nil
	}
	id := cmd.Args[0]

	job, err := s.jobs.Cancel(id)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		return domain.Reply(fmt.Sprintf("❌ No auto-send job matches %s. See /jobs", id), domain.EffectNone), nil
	case errors.Is(err, domain.ErrAmbiguousJob):
		return domain.Reply(fmt.Sprintf("❌ More than one job matches %s, give more characters.", id),
			domain.EffectNone), nil
	case err != nil:
		return domain.Outcome{}, err
	}

	return domain.Reply(fmt.Sprintf("✓ Auto-send job %s stopped.", job.ShortID()), domain.EffectJobsCleared), nil
}

type Jobs struct {
	jobs    port.JobScheduler
	command string
	budget  int
}

func NewJobs(jobs port.JobScheduler, command string, budget int) *Jobs {
	if budget <= 0 {
		budget = DefaultChunkSize
	}
	return &Jobs{jobs: jobs, command: command, budget: budget}
}

func (j *Jobs) GetCommand() string {
	return j.command
}

const previewRunes = 30

func (j *Jobs) Respond(_ context.Context, _ domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	jobs := j.jobs.List()
	if len(jobs) == 0 {
		return domain.Reply("No active auto-send jobs.", domain.EffectNone), nil
	}

	lines := make([]string, 0, len(jobs))
	for i, job := range jobs {
		lines = append(lines, fmt.Sprintf("%d. [%s] %d groups every %s since %s: %q",
			i+1, job.ShortID(), job.Request.Len(), job.Interval.Label,
			job.CreatedAt.Format("2006-01-02 15:04"), preview(job.Request.Text())))
	}

	header := fmt.Sprintf("⏱ Active auto-send jobs (%d). Stop one with /stop <id>:", len(jobs))

	return domain.Outcome{
		Responses:  domain.ChunkLines(header, lines, j.budget),
		SideEffect: domain.EffectNone,
	}, nil
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes-1]) + "…"
}

type CancelWizard struct {
	wizard  port.WizardStarter
	command string
}

func NewCancelWizard(wizard port.WizardStarter, command string) *CancelWizard {
	return &CancelWizard{wizard: wizard, command: command}
}

func (c *CancelWizard) GetCommand() string {
	return c.command
}

func (c *CancelWizard) Respond(_ context.Context, caller domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	if c.wizard != nil && c.wizard.Cancel(caller) {
		return domain.Reply("✓ Auto-send setup cancelled.", domain.EffectNone), nil
	}
	return domain.Reply("Nothing to cancel.", domain.EffectNone), nil
}
