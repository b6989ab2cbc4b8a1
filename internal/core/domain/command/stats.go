package command

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"runtime"
	"runtime/metrics"
)

type Stats struct {
	account port.AccountInfo
	jobs    port.JobScheduler
	command string
}

func NewStats(account port.AccountInfo, jobs port.JobScheduler, command string) *Stats {
	return &Stats{account: account, jobs: jobs, command: command}
}

func (s *Stats) GetCommand() string {
	return s.command
}

const kb = 1024
const statsTemplate = `📊 Account
name: %s
username: %s
id: %d

auto-send jobs: %d
goroutines: %d
heap: %d KB
compiled with %s`

func (s *Stats) Respond(ctx context.Context, _ domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	me, err := s.account.Me(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to fetch account info: %w", err)
	}

	username := "-"
	if me.Username != "" {
		username = "@" + me.Username
	}

	data := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
	metrics.Read(data)

	var heap uint64
	if data[0].Value.Kind() == metrics.KindUint64 {
		heap = data[0].Value.Uint64()
	}

	return domain.Reply(fmt.Sprintf(statsTemplate,
		me.FirstName, username, me.ID,
		len(s.jobs.List()),
		runtime.NumGoroutine(),
		heap/kb,
		runtime.Version(),
	), domain.EffectNone), nil
}
