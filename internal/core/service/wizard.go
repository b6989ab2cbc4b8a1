package service

import (
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type wizardStep int

const (
	awaitingTargets wizardStep = iota
	awaitingInterval
	awaitingMessage
)

const (
	promptTargets  = "📍 Step 1/3: send the target groups separated by spaces (e.g. @group1 @group2 -1001234567890)."
	promptInterval = "⏱ Step 2/3: send the interval (e.g. 30s, 5m, 4h)."
	promptMessage  = "✍️ Step 3/3: send the message to broadcast."
)

type wizardSession struct {
	chat     int64
	step     wizardStep
	targets  []domain.Target
	interval domain.Interval
	touched  time.Time
}

// Wizard is the multi-step alternative to "/autosend targets|interval|message".
// It keeps one session per caller, bound to the chat it was started in.
// Restarting replaces the session and a finished session is removed.
type Wizard struct {
	jobs      port.JobScheduler
	intervals domain.IntervalParser
	timeout   time.Duration

	mu       sync.Mutex
	sessions map[domain.Caller]*wizardSession
	now      func() time.Time
}

// NewWizard creates a wizard whose idle sessions expire after timeout. A zero
// timeout keeps sessions until they finish or are cancelled.
func NewWizard(jobs port.JobScheduler, intervals domain.IntervalParser, timeout time.Duration) *Wizard {
	return &Wizard{
		jobs:      jobs,
		intervals: intervals,
		timeout:   timeout,
		sessions:  make(map[domain.Caller]*wizardSession),
		now:       time.Now,
	}
}

func (w *Wizard) Start(caller domain.Caller, chat int64) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessions[caller] = &wizardSession{chat: chat, step: awaitingTargets, touched: w.now()}
	log.Debug().Int64("callerId", int64(caller)).Int64("chatId", chat).Msg("autosend wizard started")

	return promptTargets
}

func (w *Wizard) Cancel(caller domain.Caller) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.sessions[caller]
	delete(w.sessions, caller)

	return ok
}

// Active reports whether caller has an unexpired session started in chat.
func (w *Wizard) Active(caller domain.Caller, chat int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.sessionLocked(caller)
	return s != nil && s.chat == chat
}

// Advance feeds one plain message into the caller's session. It returns false
// when the caller has no session in chat.
func (w *Wizard) Advance(caller domain.Caller, chat int64, text string) (domain.Outcome, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.sessionLocked(caller)
	if s == nil || s.chat != chat {
		return domain.Outcome{}, false
	}
	s.touched = w.now()

	switch s.step {
	case awaitingTargets:
		targets := domain.ParseTargets(text)
		if len(targets) == 0 {
			return domain.Reply(domain.ResponseMissingTargets+" "+promptTargets, domain.EffectNone), true
		}
		s.targets = targets
		s.step = awaitingInterval
		return domain.Reply(promptInterval, domain.EffectNone), true

	case awaitingInterval:
		interval, err := w.intervals.Parse(text)
		if err != nil {
			return domain.Reply(domain.ResponseInvalidInterval, domain.EffectNone), true
		}
		s.interval = interval
		s.step = awaitingMessage
		return domain.Reply(promptMessage, domain.EffectNone), true

	default:
		message := strings.TrimSpace(text)
		if message == "" {
			return domain.Reply(domain.ResponseEmptyMessage, domain.EffectNone), true
		}

		delete(w.sessions, caller)

		req, err := domain.NewBroadcastRequest(s.targets, message)
		if err != nil {
			return domain.Reply(domain.ErrorResponse(err), domain.EffectNone), true
		}

		job, err := w.jobs.Create(caller, req, s.interval)
		if err != nil {
			return domain.Reply(domain.ErrorResponse(err), domain.EffectNone), true
		}

		return domain.Reply(domain.AutoSendStarted(job), domain.EffectJobCreated), true
	}
}

func (w *Wizard) sessionLocked(caller domain.Caller) *wizardSession {
	s, ok := w.sessions[caller]
	if !ok {
		return nil
	}

	if w.timeout > 0 && w.now().Sub(s.touched) > w.timeout {
		delete(w.sessions, caller)
		log.Debug().Int64("callerId", int64(caller)).Msg("autosend wizard expired")
		return nil
	}

	return s
}
