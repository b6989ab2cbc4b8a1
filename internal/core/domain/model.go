package domain

import (
	"strings"
	"time"
)

// Target identifies a recipient group or channel: a handle ("@name") or a
// string-encoded numeric chat id.
type Target string

// Caller is the numeric identity of whoever sent an inbound message.
type Caller int64

// Message is an inbound text message as seen by the dispatcher.
type Message struct {
	ID       int
	ChatID   int64
	Caller   Caller
	Username string
	Text     string
}

// BroadcastRequest is an ordered list of targets paired with the text sent
// to each of them. Build it with NewBroadcastRequest.
type BroadcastRequest struct {
	targets []Target
	text    string
}

// NewBroadcastRequest validates and copies the given targets.
func NewBroadcastRequest(targets []Target, text string) (BroadcastRequest, error) {
	if len(targets) == 0 {
		return BroadcastRequest{}, ErrMissingTargets
	}
	for _, t := range targets {
		if strings.TrimSpace(string(t)) == "" {
			return BroadcastRequest{}, ErrEmptyTarget
		}
	}
	if strings.TrimSpace(text) == "" {
		return BroadcastRequest{}, ErrEmptyMessage
	}

	cp := make([]Target, len(targets))
	copy(cp, targets)

	return BroadcastRequest{targets: cp, text: text}, nil
}

// Targets returns a copy of the target list in send order.
func (r BroadcastRequest) Targets() []Target {
	cp := make([]Target, len(r.targets))
	copy(cp, r.targets)
	return cp
}

func (r BroadcastRequest) Text() string {
	return r.text
}

func (r BroadcastRequest) Len() int {
	return len(r.targets)
}

// Delivery is the outcome of a single send attempt. A nil Err means the
// target was delivered.
type Delivery struct {
	Target Target
	Err    error
}

func (d Delivery) Delivered() bool {
	return d.Err == nil
}

// Tally counts delivered and failed attempts.
func Tally(deliveries []Delivery) (delivered, failed int) {
	for _, d := range deliveries {
		if d.Delivered() {
			delivered++
		} else {
			failed++
		}
	}
	return delivered, failed
}

// RecurringJob is a broadcast re-sent on every tick of its interval.
type RecurringJob struct {
	ID        string
	Owner     Caller
	Request   BroadcastRequest
	Interval  Interval
	CreatedAt time.Time
}

// ShortID is the id prefix shown to operators.
func (j RecurringJob) ShortID() string {
	if len(j.ID) <= 8 {
		return j.ID
	}
	return j.ID[:8]
}

type SideEffect string

const (
	EffectNone             SideEffect = "none"
	EffectJobCreated       SideEffect = "job-created"
	EffectJobsCleared      SideEffect = "jobs-cleared"
	EffectBroadcastStarted SideEffect = "broadcast-started"
)

// Outcome is what the dispatcher hands back for delivery. Responses holds one
// entry per outgoing message, in order.
type Outcome struct {
	Responses  []string
	SideEffect SideEffect
}

// Reply builds a single-response outcome.
func Reply(text string, effect SideEffect) Outcome {
	return Outcome{Responses: []string{text}, SideEffect: effect}
}

// Text returns the first response, or an empty string.
func (o Outcome) Text() string {
	if len(o.Responses) == 0 {
		return ""
	}
	return o.Responses[0]
}

type ChatKind string

const (
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
	ChatPrivate    ChatKind = "private"
)

// Chat is a group or channel known to the directory.
type Chat struct {
	ID        int64
	Kind      ChatKind
	Title     string
	Username  string
	UpdatedAt time.Time
}

// Handle returns "@username" when the chat has one.
func (c Chat) Handle() string {
	if c.Username == "" {
		return ""
	}
	return "@" + c.Username
}

// Account describes the identity the bot is logged in as.
type Account struct {
	ID        int64
	FirstName string
	Username  string
}
