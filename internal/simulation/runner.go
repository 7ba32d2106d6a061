package simulation

import (
	"context"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// Runner generates a synthetic experiment and persists it.
type Runner struct {
	assignmentStore storage.AssignmentStore
	eventStore      storage.EventStore
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	AssignmentStore storage.AssignmentStore
	EventStore      storage.EventStore
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		assignmentStore: opts.AssignmentStore,
		eventStore:      opts.EventStore,
	}
}

// Run generates assignments and events from params and writes them to
// the configured stores. Stores left nil are skipped, which lets
// callers generate data without persisting it.
func (r *Runner) Run(ctx context.Context, p Params) ([]*domain.Assignment, []*domain.EventRecord, error) {
	assignments, events, err := Generate(p)
	if err != nil {
		return nil, nil, err
	}

	if r.assignmentStore != nil {
		if err := r.assignmentStore.InsertBulk(ctx, assignments); err != nil {
			return nil, nil, err
		}
	}
	if r.eventStore != nil {
		if err := r.eventStore.InsertBulk(ctx, events); err != nil {
			return nil, nil, err
		}
	}

	return assignments, events, nil
}
