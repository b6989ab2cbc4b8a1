package port

import (
	"context"
	"groupcast/internal/core/domain"
)

type Command interface {
	// Respond executes a parsed command on behalf of caller and returns the outcome to deliver.
	Respond(ctx context.Context, caller domain.Caller, cmd domain.ParsedCommand) (domain.Outcome, error)
	// GetCommand retrieves the command identifier associated with a specific command handler.
	GetCommand() string
}

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its string identifier or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns a list of all command identifiers currently registered in the command registry.
	ListCommands() []string
}

type WizardStarter interface {
	// Start opens (or restarts) the interactive autosend flow for caller in chat and returns the first prompt.
	Start(caller domain.Caller, chat int64) string
	// Cancel discards the caller's flow and reports whether one existed.
	Cancel(caller domain.Caller) bool
}
