package command

import (
	"errors"
	"groupcast/internal/core/port"
	"sort"

	"github.com/rs/zerolog/log"
)

// Registry maps a lowercased "/name" to the handler serving it. The zero value
// is ready to use; it is filled once at startup and only read afterwards.
type Registry struct {
	commands map[string]port.Command
}

// Register adds handler under its GetCommand name, replacing an earlier
// handler with the same name.
func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler
}

// Get looks up the handler for a parsed command name such as "/sendmulti".
func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

// ListCommands returns the registered command names in alphabetical order.
func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
