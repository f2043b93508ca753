package pom

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/pom/internal/core/task"
	"github.com/hay-kot/pom/internal/core/validate"
)

// TaskService wraps task.Store with input validation and logging. Store
// errors are wrapped, so callers match task.ErrAlreadyExists and friends
// with errors.Is.
type TaskService struct {
	store task.Store
	log   zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(store task.Store, log zerolog.Logger) *TaskService {
	return &TaskService{
		store: store,
		log:   log.With().Str("component", "task-service").Logger(),
	}
}

// StorePath returns the location of the underlying store file.
func (s *TaskService) StorePath() string {
	return s.store.Path()
}

// Add creates a pending task.
func (s *TaskService) Add(ctx context.Context, id string, estimation int) (task.Task, error) {
	if err := validate.TaskIDField("task_id", id); err != nil {
		return task.Task{}, err
	}

	t, err := s.store.Add(ctx, id, estimation)
	if err != nil {
		return task.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.log.Info().Ctx(ctx).
		Str("id", t.ID).
		Int("estimation", t.Estimation).
		Msg("task added")

	return t, nil
}

// Complete marks a task completed. A nil effort records that no effort was
// tracked.
func (s *TaskService) Complete(ctx context.Context, id string, effort *string) (task.Task, error) {
	t, err := s.store.Complete(ctx, id, effort)
	if err != nil {
		return task.Task{}, fmt.Errorf("complete task: %w", err)
	}

	evt := s.log.Info().Ctx(ctx).Str("id", t.ID)
	if t.Effort != nil {
		evt = evt.Str("effort", *t.Effort)
	}
	evt.Msg("task completed")

	return t, nil
}

// List returns tasks matching filter ordered by id.
func (s *TaskService) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	tasks, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	s.log.Debug().Ctx(ctx).
		Str("state", string(filter.State)).
		Str("pattern", filter.Pattern).
		Int("count", len(tasks)).
		Msg("tasks listed")

	return tasks, nil
}

// Get returns the task for id and whether it exists.
func (s *TaskService) Get(ctx context.Context, id string) (task.Task, bool, error) {
	t, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, false, fmt.Errorf("get task: %w", err)
	}
	return t, ok, nil
}
