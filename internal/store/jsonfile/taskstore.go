package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/hay-kot/pom/internal/core/task"
)

// ErrLockTimeout is returned when the store lock cannot be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for task store lock")

const (
	DefaultDir         = ".pomodoro"
	DefaultFile        = "data.json"
	DefaultLockTimeout = 5 * time.Second

	lockRetryDelay = 50 * time.Millisecond
)

// Options locate the store file. Dir is joined to HomeDir unless absolute.
type Options struct {
	HomeDir string
	Dir     string
	File    string

	// LockTimeout bounds how long an operation waits for the advisory lock.
	// Zero uses DefaultLockTimeout, a negative value disables locking.
	LockTimeout time.Duration
}

// Path returns the store file location described by o.
func (o Options) Path() string {
	dir := o.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(o.HomeDir, dir)
	}

	file := o.File
	if file == "" {
		file = DefaultFile
	}

	return filepath.Join(dir, file)
}

// TaskStore implements task.Store on top of a single JSON document.
//
// Every operation is a complete load-mutate-save cycle guarded by an
// exclusive advisory lock on a sibling ".lock" file, so separate pom
// processes do not lose each other's updates.
type TaskStore struct {
	path        string
	lockTimeout time.Duration
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a task store at the location described by opts.
func NewTaskStore(opts Options) *TaskStore {
	timeout := opts.LockTimeout
	if timeout == 0 {
		timeout = DefaultLockTimeout
	}

	return &TaskStore{
		path:        opts.Path(),
		lockTimeout: timeout,
	}
}

// Path returns the store file location.
func (s *TaskStore) Path() string {
	return s.path
}

// Load returns the stored document, initializing the file if it is missing
// or blank.
func (s *TaskStore) Load(ctx context.Context) (task.Document, error) {
	var doc task.Document
	err := s.withLock(ctx, func() error {
		var err error
		doc, err = s.load()
		return err
	})
	return doc, err
}

// Save overwrites the stored document.
func (s *TaskStore) Save(ctx context.Context, doc task.Document) error {
	return s.withLock(ctx, func() error {
		return s.save(doc)
	})
}

// Add inserts a pending task. Returns task.ErrAlreadyExists if the id is taken.
func (s *TaskStore) Add(ctx context.Context, id string, estimation int) (task.Task, error) {
	var created task.Task
	err := s.withLock(ctx, func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}

		if _, ok := doc.Tasks[id]; ok {
			return fmt.Errorf("%w: %s", task.ErrAlreadyExists, id)
		}

		created = task.New(id, estimation)
		doc.Tasks[id] = created

		return s.save(doc)
	})
	return created, err
}

// Complete marks the task completed with effort, which may be nil.
func (s *TaskStore) Complete(ctx context.Context, id string, effort *string) (task.Task, error) {
	var updated task.Task
	err := s.withLock(ctx, func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}

		t, ok := doc.Tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", task.ErrNotFound, id)
		}
		if t.Completed {
			return fmt.Errorf("%w: %s", task.ErrAlreadyCompleted, id)
		}

		t.Effort = effort
		t.Completed = true
		doc.Tasks[id] = t
		updated = t

		return s.save(doc)
	})
	return updated, err
}

// List returns the tasks matching filter, ordered by id.
func (s *TaskStore) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	return filter.Apply(doc.Sorted()), nil
}

// Get returns the task for id and whether it exists.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, bool, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return task.Task{}, false, err
	}

	t, ok := doc.Tasks[id]
	return t, ok, nil
}

func (s *TaskStore) withLock(ctx context.Context, fn func() error) error {
	if s.lockTimeout < 0 {
		return fn()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, lock.Path())
		}
		return fmt.Errorf("lock task store: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLockTimeout, lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

// load reads the document from disk. A missing or blank file is replaced by
// an empty document which is persisted before returning.
func (s *TaskStore) load() (task.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return task.Document{}, fmt.Errorf("read task store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		doc := task.NewDocument()
		if err := s.save(doc); err != nil {
			return task.Document{}, err
		}
		return doc, nil
	}

	var doc task.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return task.Document{}, &task.CorruptError{Path: s.path, Err: err}
	}

	if doc.Tasks == nil {
		doc.Tasks = map[string]task.Task{}
	}

	for id, t := range doc.Tasks {
		if t.ID == "" {
			t.ID = id
			doc.Tasks[id] = t
		}
	}

	return doc, nil
}

// save writes the document to disk atomically.
func (s *TaskStore) save(doc task.Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	if doc.Tasks == nil {
		doc.Tasks = map[string]task.Task{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode task store: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write task store: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace task store: %w", err)
	}

	return nil
}
