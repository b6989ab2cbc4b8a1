package command

import (
	"context"
	"groupcast/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResponder struct {
	command string
}

func (m *MockResponder) Respond(_ context.Context, _ domain.Caller, _ domain.ParsedCommand) (domain.Outcome, error) {
	return domain.Outcome{}, nil
}

func (m *MockResponder) GetCommand() string {
	return m.command
}

func TestRegister(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)
}

func TestGetNotRegistered(t *testing.T) {
	cr := &Registry{}

	_, err := cr.Get("test")
	require.EqualError(t, err, "can't fetch command, registry not initialized")
}

func TestGetCommandNotFound(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)

	_, err := cr.Get("/foo")
	require.EqualError(t, err, "command not found")
}

func TestGetCommandFound(t *testing.T) {
	cr := &Registry{}
	mr := &MockResponder{command: "/test"}

	cr.Register(mr)
	assert.Len(t, cr.commands, 1)

	cmd, err := cr.Get("/test")
	require.NoError(t, err)
	assert.NotNil(t, cmd)

	assert.Equal(t, "/test", cmd.GetCommand())
}

func TestListCommands(t *testing.T) {
	cr := &Registry{}
	mr1 := &MockResponder{command: "/foo"}
	mr2 := &MockResponder{command: "/bar"}

	cr.Register(mr1)
	cr.Register(mr2)
	assert.Len(t, cr.commands, 2)

	assert.Equal(t, []string{"/bar", "/foo"}, cr.ListCommands())
}

func TestRegisterReplacesSameName(t *testing.T) {
	cr := &Registry{}
	first := &MockResponder{command: "/send"}
	second := &MockResponder{command: "/send"}

	cr.Register(first)
	cr.Register(second)

	cmd, err := cr.Get("/send")
	require.NoError(t, err)
	assert.Same(t, second, cmd)
	assert.Equal(t, []string{"/send"}, cr.ListCommands())
}
