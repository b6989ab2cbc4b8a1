package port

import (
	"context"
	"groupcast/internal/core/domain"
)

type Broadcaster interface {
	// Run sends the request to every target in order and reports one Delivery per target.
	Run(ctx context.Context, request domain.BroadcastRequest) []domain.Delivery
}

type JobScheduler interface {
	// Create registers a recurring broadcast. The first tick happens one full interval later.
	Create(owner domain.Caller, request domain.BroadcastRequest, interval domain.Interval) (domain.RecurringJob, error)
	// Cancel stops the job whose id (or unique id prefix) is given.
	Cancel(id string) (domain.RecurringJob, error)
	// CancelAll stops every job and returns how many were stopped.
	CancelAll() int
	// List returns active jobs ordered by creation time.
	List() []domain.RecurringJob
}
