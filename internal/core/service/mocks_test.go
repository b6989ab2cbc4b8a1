package service

import (
	"context"
	"errors"
	"groupcast/internal/core/domain"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, chat any, text string) error {
	args := m.Called(ctx, chat, text)
	return args.Error(0)
}

// passDirectory resolves every target to its own string, except the ones
// listed in fail.
type passDirectory struct {
	fail map[domain.Target]error
}

func (d *passDirectory) Resolve(_ context.Context, target domain.Target) (any, error) {
	if err, ok := d.fail[target]; ok {
		return nil, err
	}
	return string(target), nil
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Run(ctx context.Context, request domain.BroadcastRequest) []domain.Delivery {
	args := m.Called(ctx, request)
	d, _ := args.Get(0).([]domain.Delivery)
	return d
}

var errBoom = errors.New("boom")

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
	args := m.Called()
	return args.Int(0)
}

func (m *MockJobs) List() []domain.RecurringJob {
	args := m.Called()
	jobs, _ := args.Get(0).([]domain.RecurringJob)
	return jobs
}
