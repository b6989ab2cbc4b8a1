package service

import (
	"context"
	"errors"
	"fmt"
	"groupcast/internal/core/domain"
	"groupcast/internal/core/port"

	"github.com/rs/zerolog/log"
)

// DefaultDeniedResponse is sent to callers outside the allow-list when no
// response is configured.
const DefaultDeniedResponse = "🚫 This bot is private. Ask its owner for access."

// Conversation is a stateful front-end that consumes plain messages, such as
// the autosend wizard.
type Conversation interface {
	Active(caller domain.Caller, chat int64) bool
	Advance(caller domain.Caller, chat int64, text string) (domain.Outcome, bool)
}

type Dispatcher struct {
	auth           Authorizer
	parser         domain.CommandParser
	registry       port.CommandRegistry
	conversation   Conversation
	deniedResponse string
}

type DispatcherParams struct {
	Auth     Authorizer
	Parser   domain.CommandParser
	Registry port.CommandRegistry
	// Conversation is optional.
	Conversation   Conversation
	DeniedResponse string
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	denied := p.DeniedResponse
	if denied == "" {
		denied = DefaultDeniedResponse
	}

	return &Dispatcher{
		auth:           p.Auth,
		parser:         p.Parser,
		registry:       p.Registry,
		conversation:   p.Conversation,
		deniedResponse: denied,
	}
}

// Handle runs one inbound message through authorization, parsing and routing.
// It returns false when nothing should be sent back.
func (d *Dispatcher) Handle(ctx context.Context, msg *domain.Message) (out domain.Outcome, ok bool) {
	caller, text := msg.Caller, msg.Text
	l := log.With().Int64("callerId", int64(caller)).Int64("chatId", msg.ChatID).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			l.Error().Interface("panic", rec).Msg("recovered from panic while dispatching")
			out = domain.Reply(domain.ErrorResponse(fmt.Errorf("internal error: %v", rec)), domain.EffectNone)
			ok = true
		}
	}()

	if !domain.IsCommand(text) {
		if d.conversation == nil || !d.conversation.Active(caller, msg.ChatID) {
			return domain.Outcome{}, false
		}
		if d.auth.Check(caller) != Allowed {
			return domain.Outcome{}, false
		}
		return d.conversation.Advance(caller, msg.ChatID, text)
	}

	switch d.auth.Check(caller) {
	case Denied:
		l.Warn().Msg("denied caller")
		return domain.Reply(d.deniedResponse, domain.EffectNone), true
	case Muted:
		l.Debug().Msg("denied caller is muted")
		return domain.Outcome{}, false
	}

	cmd, err := d.parser.Parse(text)
	if err != nil {
		l.Debug().Err(err).Msg("malformed command")
		return domain.Reply(usageResponse(err), domain.EffectNone), true
	}
	cmd.ChatID = msg.ChatID

	l = l.With().Str("command", cmd.Name).Logger()

	handler, err := d.registry.Get(cmd.Name)
	if err != nil {
		l.Debug().Err(err).Msg("no handler for command")
		return domain.Reply(domain.ResponseUnknownCommand, domain.EffectNone), true
	}

	out, err = handler.Respond(ctx, caller, cmd)
	if err != nil {
		l.Error().Err(err).Msg("command failed")
		return domain.Reply(domain.ErrorResponse(err), domain.EffectNone), true
	}

	l.Debug().Str("effect", string(out.SideEffect)).Int("responses", len(out.Responses)).Msg("command handled")

	return out, true
}

func usageResponse(err error) string {
	if errors.Is(err, domain.ErrUnknownCommand) {
		return domain.ResponseUnknownCommand
	}

	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		return domain.ErrorResponse(err)
	}

	usage := pe.Kind.Usage()

	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return domain.ResponseInvalidInterval
	case errors.Is(err, domain.ErrEmptyMessage):
		return domain.ResponseEmptyMessage
	case errors.Is(err, domain.ErrMissingTargets):
		return domain.ResponseMissingTargets + "\nFormat: " + usage
	case errors.Is(err, domain.ErrUsage):
		return "❌ Usage: " + usage
	default:
		return "❌ Format: " + usage
	}
}
