package command

import (
	"context"
	"groupcast/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Run(ctx context.Context, request domain.BroadcastRequest) []domain.Delivery {
	args := m.Called(ctx, request)
	d, _ := args.Get(0).([]domain.Delivery)
	return d
}

type MockJobs struct {
	mock.Mock
}

func (m *MockJobs) Create(owner domain.Caller, request domain.BroadcastRequest,
	interval domain.Interval) (domain.RecurringJob, error) {
	args := m.Called(owner, request, interval)
	job, _ := args.Get(0).(domain.RecurringJob)
	return job, args.Error(1)
}

func (m *MockJobs) Cancel(id string) (domain.RecurringJob, error) {
	args := m.Called(id)
	job, _ := args.Get(0).(domain.RecurringJob)
	return job, args.Error(1)
}

func (m *MockJobs) CancelAll() int {
	return m.Called().Int(0)
}

func (m *MockJobs) List() []domain.RecurringJob {
	jobs, _ := m.Called().Get(0).([]domain.RecurringJob)
	return jobs
}

type MockWizard struct {
	mock.Mock
}

func (m *MockWizard) Start(caller domain.Caller, chat int64) string {
	return m.Called(caller, chat).String(0)
}

func (m *MockWizard) Cancel(caller domain.Caller) bool {
	return m.Called(caller).Bool(0)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListChats(ctx context.Context) ([]domain.Chat, error) {
	args := m.Called(ctx)
	chats, _ := args.Get(0).([]domain.Chat)
	return chats, args.Error(1)
}

type MockAccount struct {
	mock.Mock
}

func (m *MockAccount) Me(ctx context.Context) (domain.Account, error) {
	args := m.Called(ctx)
	acc, _ := args.Get(0).(domain.Account)
	return acc, args.Error(1)
}

func mustRequest(t *testing.T, text string, targets ...domain.Target) domain.BroadcastRequest {
	t.Helper()
	req, err := domain.NewBroadcastRequest(targets, text)
	require.NoError(t, err)
	return req
}
