package service

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// minPrefixLen is the shortest job id prefix accepted by Cancel.
const minPrefixLen = 4

// every fires a fixed duration after the previous activation, without the
// whole-second rounding of cron.Every.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

type scheduledJob struct {
	job     domain.RecurringJob
	entryID cron.EntryID
}

// JobRegistry owns every recurring broadcast of the process. Each job is a
// cron entry that re-runs the same request on every tick. Nothing is
// persisted.
type JobRegistry struct {
	runner port.Broadcaster

	mu   sync.Mutex
	c    *cron.Cron
	jobs map[string]scheduledJob
	ctx  context.Context
}

// NewJobRegistry starts the cron engine. Ticks run with ctx, so cancelling a
// job never interrupts a broadcast that is already in flight.
func NewJobRegistry(ctx context.Context, runner port.Broadcaster) *JobRegistry {
	logger := cronLogger{l: log.With().Str("component", "jobs").Logger()}

	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	c.Start()

	return &JobRegistry{
		runner: runner,
		c:      c,
		jobs:   make(map[string]scheduledJob),
		ctx:    ctx,
	}
}

func (r *JobRegistry) Create(owner domain.Caller, request domain.BroadcastRequest,
	interval domain.Interval) (domain.RecurringJob, error) {
	if interval.Milliseconds <= 0 || interval.Milliseconds > domain.MaxIntervalMilliseconds ||
		interval.Duration() <= 0 {
		return domain.RecurringJob{}, domain.ErrInvalidInterval
	}
	if request.Len() == 0 {
		return domain.RecurringJob{}, domain.ErrMissingTargets
	}

	id, err := uuid.NewV4()
	if err != nil {
		return domain.RecurringJob{}, fmt.Errorf("failed to generate job id: %w", err)
	}

	job := domain.RecurringJob{
		ID:        id.String(),
		Owner:     owner,
		Request:   request,
		Interval:  interval,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entryID := r.c.Schedule(every(interval.Duration()), cron.FuncJob(func() {
		r.tick(job)
	}))
	r.jobs[job.ID] = scheduledJob{job: job, entryID: entryID}

	log.Info().
		Str("job", job.ShortID()).
		Int("targets", request.Len()).
		Str("interval", interval.Label).
		Int64("owner", int64(owner)).
		Msg("recurring job created")

	return job, nil
}

func (r *JobRegistry) tick(job domain.RecurringJob) {
	l := log.With().Str("job", job.ShortID()).Logger()
	l.Info().Msg("recurring job tick")

	deliveries := r.runner.Run(r.ctx, job.Request)
	delivered, failed := domain.Tally(deliveries)

	l.Info().Int("delivered", delivered).Int("failed", failed).Msg("recurring job tick finished")
}

// Cancel stops one job by full id or by a unique prefix of at least
// minPrefixLen characters.
func (r *JobRegistry) Cancel(id string) (domain.RecurringJob, error) {
	id = strings.ToLower(strings.TrimSpace(id))

	r.mu.Lock()
	defer r.mu.Unlock()

	sj, ok := r.jobs[id]
	if !ok {
		if len(id) < minPrefixLen {
			return domain.RecurringJob{}, domain.ErrJobNotFound
		}

		var matches []scheduledJob
		for key, candidate := range r.jobs {
			if strings.HasPrefix(key, id) {
				matches = append(matches, candidate)
			}
		}

		switch len(matches) {
		case 0:
			return domain.RecurringJob{}, domain.ErrJobNotFound
		case 1:
			sj = matches[0]
		default:
			return domain.RecurringJob{}, domain.ErrAmbiguousJob
		}
	}

	r.c.Remove(sj.entryID)
	delete(r.jobs, sj.job.ID)

	log.Info().Str("job", sj.job.ShortID()).Msg("recurring job cancelled")

	return sj.job, nil
}

func (r *JobRegistry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.jobs)
	for id, sj := range r.jobs {
		r.c.Remove(sj.entryID)
		delete(r.jobs, id)
	}

	log.Info().Int("count", n).Msg("all recurring jobs cancelled")

	return n
}

func (r *JobRegistry) List() []domain.RecurringJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]domain.RecurringJob, 0, len(r.jobs))
	for _, sj := range r.jobs {
		jobs = append(jobs, sj.job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	return jobs
}

// Stop halts the cron engine and waits for running ticks, or until ctx ends.
func (r *JobRegistry) Stop(ctx context.Context) {
	done := r.c.Stop()

	select {
	case <-done.Done():
		log.Debug().Msg("job registry stopped")
	case <-ctx.Done():
		log.Warn().Msg("job registry stop timed out with ticks still running")
	}
}

// cronLogger routes cron's logs through zerolog.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
