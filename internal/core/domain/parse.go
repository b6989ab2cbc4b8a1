package domain

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSend
	KindSendMulti
	KindAutoSend
	KindStopTimers
	KindHelp
	KindStats
	KindHas
	KindJobs
	KindStop
	KindCancel
)

var kindsByName = map[string]Kind{
	"/send":       KindSend,
	"/sendmulti":  KindSendMulti,
	"/autosend":   KindAutoSend,
	"/stoptimers": KindStopTimers,
	"/help":       KindHelp,
	"/stats":      KindStats,
	"/has":        KindHas,
	"/jobs":       KindJobs,
	"/stop":       KindStop,
	"/cancel":     KindCancel,
}

// Usage is the syntax hint shown when a command is malformed.
func (k Kind) Usage() string {
	switch k {
	case KindSend:
		return "/send <target> <message>"
	case KindSendMulti:
		return "/sendmulti @group1 @group2|Your message"
	case KindAutoSend:
		return "/autosend @group1 @group2|<interval>|<message>"
	case KindStop:
		return "/stop <job id>"
	default:
		return "/help"
	}
}

// ParsedCommand is the structured form of a command line. Which fields are
// set depends on Kind.
type ParsedCommand struct {
	Name     string
	Kind     Kind
	Targets  []Target
	Text     string
	Interval Interval
	Args     []string
	// Wizard is set for a bare "/autosend" that should start the interactive flow.
	Wizard bool
	// ChatID is the chat the command was sent in. The parser leaves it zero.
	ChatID int64
}

// ParseError reports a malformed command of a known kind.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Usage(), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CommandParser splits command lines into ParsedCommand values. It holds
// no state between calls.
type CommandParser struct {
	Intervals IntervalParser
}

// IsCommand reports whether text starts with the command prefix.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t"), Prefix)
}

// CommandName returns the lowercased command token with any "@botname"
// suffix removed, e.g. "/Send@MyBot hi" -> "/send".
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	name := fields[0]
	if i := strings.Index(name, "|"); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}

	return strings.ToLower(name)
}

// ParseCommand parses with the default interval unit.
func ParseCommand(text string) (ParsedCommand, error) {
	return CommandParser{}.Parse(text)
}

func (p CommandParser) Parse(text string) (ParsedCommand, error) {
	text = strings.TrimSpace(text)
	if !IsCommand(text) {
		return ParsedCommand{}, ErrNotACommand
	}

	name := CommandName(text)
	kind, ok := kindsByName[name]
	if !ok {
		return ParsedCommand{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	cmd := ParsedCommand{Name: name, Kind: kind}

	var err error
	switch kind {
	case KindSend:
		err = parseSend(text, &cmd)
	case KindSendMulti:
		err = parseSendMulti(text, &cmd)
	case KindAutoSend:
		err = p.parseAutoSend(text, &cmd)
	case KindStop:
		cmd.Args = strings.Fields(text)[1:]
		if len(cmd.Args) == 0 {
			err = ErrUsage
		}
	default:
		cmd.Args = strings.Fields(text)[1:]
	}
	if err != nil {
		return ParsedCommand{}, &ParseError{Kind: kind, Err: err}
	}

	return cmd, nil
}

func parseSend(text string, cmd *ParsedCommand) error {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return ErrUsage
	}

	cmd.Targets = []Target{Target(fields[1])}
	cmd.Text = strings.Join(fields[2:], " ")

	return nil
}

func parseSendMulti(text string, cmd *ParsedCommand) error {
	left, right, found := strings.Cut(text, "|")
	if !found {
		return ErrMissingDelimiter
	}

	cmd.Targets = targetsAfterCommand(left)
	cmd.Text = strings.TrimSpace(right)

	if len(cmd.Targets) == 0 {
		return ErrMissingTargets
	}
	if cmd.Text == "" {
		return ErrEmptyMessage
	}

	return nil
}

func (p CommandParser) parseAutoSend(text string, cmd *ParsedCommand) error {
	if !strings.Contains(text, "|") && len(strings.Fields(text)) == 1 {
		cmd.Wizard = true
		return nil
	}

	parts := strings.Split(text, "|")
	if len(parts) < 3 {
		return ErrMissingParts
	}

	cmd.Targets = targetsAfterCommand(parts[0])
	if len(cmd.Targets) == 0 {
		return ErrMissingTargets
	}

	interval, err := p.Intervals.Parse(parts[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInterval, err)
	}
	cmd.Interval = interval

	cmd.Text = strings.TrimSpace(strings.Join(parts[2:], "|"))
	if cmd.Text == "" {
		return ErrEmptyMessage
	}

	return nil
}

// ParseTargets splits free text into targets on whitespace.
func ParseTargets(text string) []Target {
	fields := strings.Fields(text)
	targets := make([]Target, 0, len(fields))
	for _, f := range fields {
		targets = append(targets, Target(f))
	}
	return targets
}

func targetsAfterCommand(segment string) []Target {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return nil
	}

	return ParseTargets(strings.Join(fields[1:], " "))
}
