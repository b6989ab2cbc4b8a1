package service

import (
	"context"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPacingDelay is the wait between two sends of one broadcast.
const DefaultPacingDelay = 5 * time.Second

type Runner struct {
	sender      port.MessageSender
	directory   port.Directory
	delay       time.Duration
	sendTimeout time.Duration

	sleep func(ctx context.Context, d time.Duration)
}

type RunnerParams struct {
	Sender    port.MessageSender
	Directory port.Directory
	// Delay is the pacing delay between consecutive targets.
	Delay time.Duration
	// SendTimeout bounds a single send. Zero means no bound.
	SendTimeout time.Duration
}

func NewRunner(p RunnerParams) *Runner {
	return &Runner{
		sender:      p.Sender,
		directory:   p.Directory,
		delay:       p.Delay,
		sendTimeout: p.SendTimeout,
		sleep:       sleepContext,
	}
}

// Run attempts every target exactly once, strictly in order, pausing for the
// pacing delay between sends. A failing target never stops the loop.
func (r *Runner) Run(ctx context.Context, request domain.BroadcastRequest) []domain.Delivery {
	targets := request.Targets()
	deliveries := make([]domain.Delivery, 0, len(targets))

	l := log.With().
		Int("targets", len(targets)).
		Str("func", "Run").
		Logger()

	for i, target := range targets {
		err := r.sendOne(ctx, target, request.Text())
		if err != nil {
			l.Warn().Err(err).Str("target", string(target)).Int("position", i+1).Msg("failed to send message")
		} else {
			l.Info().Str("target", string(target)).Int("position", i+1).Msg("message sent")
		}

		deliveries = append(deliveries, domain.Delivery{Target: target, Err: err})

		if i < len(targets)-1 {
			l.Debug().Dur("delay", r.delay).Msg("pacing before next target")
			r.sleep(ctx, r.delay)
		}
	}

	return deliveries
}

func (r *Runner) sendOne(ctx context.Context, target domain.Target, text string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while sending: %v", rec)
		}
	}()

	chat, err := r.directory.Resolve(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	if r.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.sendTimeout)
		defer cancel()
	}

	if err := r.sender.Send(ctx, chat, text); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
