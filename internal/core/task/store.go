package task

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists is returned when adding a task whose id is taken.
	ErrAlreadyExists = errors.New("task already exists")
	// ErrNotFound is returned when a task id is not in the store.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadyCompleted is returned when completing a completed task.
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrCorrupt matches any *CorruptError.
	ErrCorrupt = errors.New("task store is corrupt")
)

// CorruptError reports a store file whose content could not be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("task store %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// Store defines the interface for task persistence.
type Store interface {
	// Load returns the full document, creating an empty one if none exists.
	// Returns a *CorruptError if the stored content cannot be parsed.
	Load(ctx context.Context) (Document, error)

	// Save overwrites the stored document.
	Save(ctx context.Context, doc Document) error

	// Add inserts a pending task.
	// Returns ErrAlreadyExists if the id is already present.
	Add(ctx context.Context, id string, estimation int) (Task, error)

	// Complete marks a task completed with an optional effort.
	// Returns ErrNotFound or ErrAlreadyCompleted.
	Complete(ctx context.Context, id string, effort *string) (Task, error)

	// List returns tasks matching the filter, ordered by id.
	List(ctx context.Context, filter Filter) ([]Task, error)

	// Get returns the task for id. A missing id is reported through ok,
	// never as an error.
	Get(ctx context.Context, id string) (t Task, ok bool, err error)

	// Path returns the location of the store file.
	Path() string
}
