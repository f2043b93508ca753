package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/pom/internal/core/task"
)

func newTestTaskStore(t *testing.T) *TaskStore {
	t.Helper()
	return NewTaskStore(Options{HomeDir: t.TempDir()})
}

func ptr(s string) *string { return &s }

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestOptions_Path(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "defaults",
			opts: Options{HomeDir: "/home/me"},
			want: "/home/me/.pomodoro/data.json",
		},
		{
			name: "relative dir",
			opts: Options{HomeDir: "/home/me", Dir: "tasks", File: "pom.json"},
			want: "/home/me/tasks/pom.json",
		},
		{
			name: "absolute dir ignores home",
			opts: Options{HomeDir: "/home/me", Dir: "/var/lib/pom"},
			want: "/var/lib/pom/data.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Path())
		})
	}
}

func TestTaskStore_LoadCreatesFile(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks)
	assert.NotNil(t, doc.Tasks)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"tasks\": {}\n}\n", string(data))
}

func TestTaskStore_LoadBlankFileReinitializes(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("  \n\n"), 0o644))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":{}}`, string(data))
}

func TestTaskStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("not json at all"), 0o644))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, task.ErrCorrupt)

	var corrupt *task.CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, s.Path(), corrupt.Path)

	// the corrupt file is left untouched for the user to inspect
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "not json at all", string(data))

	_, err = s.Add(ctx, "A", 1)
	require.ErrorIs(t, err, task.ErrCorrupt)
}

func TestTaskStore_LoadNullTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"tasks": null}`), 0o644))

	_, err := s.Add(ctx, "A", 1)
	require.NoError(t, err)

	tasks, err := s.List(ctx, task.Filter{State: task.StateAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(tasks))
}

func TestTaskStore_LoadNumericEffort(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	content := `{
  "tasks": {
    "OLD": {"id": "OLD", "estimation": 2, "effort": 3, "completed": true}
  }
}`
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	got, ok, err := s.Get(ctx, "OLD")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.Effort)
	assert.Equal(t, "3", *got.Effort)
}

func TestTaskStore_Add(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	created, err := s.Add(ctx, "WRITE-DOCS", 3)
	require.NoError(t, err)
	assert.Equal(t, task.Task{ID: "WRITE-DOCS", Estimation: 3}, created)

	tasks, err := s.List(ctx, task.Filter{State: task.StateAll})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "WRITE-DOCS", tasks[0].ID)
	assert.Equal(t, 3, tasks[0].Estimation)
	assert.Nil(t, tasks[0].Effort)
	assert.False(t, tasks[0].Completed)
}

func TestTaskStore_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	_, err := s.Add(ctx, "A", 3)
	require.NoError(t, err)

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Add(ctx, "A", 8)
	require.ErrorIs(t, err, task.ErrAlreadyExists)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	got, ok, err := s.Get(ctx, "A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Estimation)
	assert.False(t, got.Completed)
}

func TestTaskStore_IDsAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	_, err := s.Add(ctx, "task", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, "TASK", 2)
	require.NoError(t, err)

	tasks, err := s.List(ctx, task.Filter{State: task.StateAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"TASK", "task"}, ids(tasks))
}

func TestTaskStore_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("records effort", func(t *testing.T) {
		s := newTestTaskStore(t)
		_, err := s.Add(ctx, "A", 5)
		require.NoError(t, err)

		updated, err := s.Complete(ctx, "A", ptr("2"))
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		require.NotNil(t, updated.Effort)
		assert.Equal(t, "2", *updated.Effort)
	})

	t.Run("without effort", func(t *testing.T) {
		s := newTestTaskStore(t)
		_, err := s.Add(ctx, "A", 5)
		require.NoError(t, err)

		updated, err := s.Complete(ctx, "A", nil)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Nil(t, updated.Effort)

		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Contains(t, string(data), `"effort": null`)
	})

	t.Run("missing task mutates nothing", func(t *testing.T) {
		s := newTestTaskStore(t)
		_, err := s.Add(ctx, "A", 5)
		require.NoError(t, err)

		before, err := os.ReadFile(s.Path())
		require.NoError(t, err)

		_, err = s.Complete(ctx, "B", ptr("1"))
		require.ErrorIs(t, err, task.ErrNotFound)

		after, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("twice keeps first effort", func(t *testing.T) {
		s := newTestTaskStore(t)
		_, err := s.Add(ctx, "A", 5)
		require.NoError(t, err)

		_, err = s.Complete(ctx, "A", ptr("2"))
		require.NoError(t, err)

		_, err = s.Complete(ctx, "A", ptr("9"))
		require.ErrorIs(t, err, task.ErrAlreadyCompleted)

		got, ok, err := s.Get(ctx, "A")
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, got.Effort)
		assert.Equal(t, "2", *got.Effort)
	})

	t.Run("only target modified", func(t *testing.T) {
		s := newTestTaskStore(t)
		_, err := s.Add(ctx, "A", 1)
		require.NoError(t, err)
		_, err = s.Add(ctx, "B", 2)
		require.NoError(t, err)

		_, err = s.Complete(ctx, "A", nil)
		require.NoError(t, err)

		got, ok, err := s.Get(ctx, "B")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, task.Task{ID: "B", Estimation: 2}, got)
	})
}

func TestTaskStore_ListSortedByID(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	for _, id := range []string{"b", "a", "c"} {
		_, err := s.Add(ctx, id, 1)
		require.NoError(t, err)
	}

	tasks, err := s.List(ctx, task.Filter{State: task.StateAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tasks))

	// restartable: a second call yields the same sequence
	again, err := s.List(ctx, task.Filter{State: task.StateAll})
	require.NoError(t, err)
	assert.Equal(t, tasks, again)
}

func TestTaskStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	for _, id := range []string{"api/login", "api/logout", "docs/readme", "fix"} {
		_, err := s.Add(ctx, id, 1)
		require.NoError(t, err)
	}
	_, err := s.Complete(ctx, "api/logout", ptr("1"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter task.Filter
		want   []string
	}{
		{"default is active", task.Filter{}, []string{"api/login", "docs/readme", "fix"}},
		{"active", task.Filter{State: task.StateActive}, []string{"api/login", "docs/readme", "fix"}},
		{"completed", task.Filter{State: task.StateCompleted}, []string{"api/logout"}},
		{"all", task.Filter{State: task.StateAll}, []string{"api/login", "api/logout", "docs/readme", "fix"}},
		{"pattern", task.Filter{State: task.StateAll, Pattern: "api/*"}, []string{"api/login", "api/logout"}},
		{"pattern and state", task.Filter{Pattern: "api/*"}, []string{"api/login"}},
		{"pattern no match", task.Filter{State: task.StateAll, Pattern: "nope*"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := s.List(ctx, task.Filter{Pattern: "[a-"})
		require.Error(t, err)
	})
}

func TestTaskStore_Get(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Add(ctx, "A", 4)
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, got.Estimation)
}

func TestTaskStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	for _, id := range []string{"z", "m", "a"} {
		_, err := s.Add(ctx, id, 2)
		require.NoError(t, err)
	}
	_, err := s.Complete(ctx, "m", ptr("4"))
	require.NoError(t, err)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, doc))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	doc, err = s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, doc))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestTaskStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newTestTaskStore(t)

	_, err := s.Add(ctx, "WRITE-DOCS", 3)
	require.NoError(t, err)
	_, err = s.Add(ctx, "FIX-BUG", 5)
	require.NoError(t, err)

	active, err := s.List(ctx, task.Filter{State: task.StateActive})
	require.NoError(t, err)
	assert.Equal(t, []task.Task{
		{ID: "FIX-BUG", Estimation: 5},
		{ID: "WRITE-DOCS", Estimation: 3},
	}, active)

	_, err = s.Complete(ctx, "FIX-BUG", ptr("2"))
	require.NoError(t, err)

	completed, err := s.List(ctx, task.Filter{State: task.StateCompleted})
	require.NoError(t, err)
	assert.Equal(t, []task.Task{
		{ID: "FIX-BUG", Estimation: 5, Effort: ptr("2"), Completed: true},
	}, completed)

	_, err = s.Complete(ctx, "FIX-BUG", nil)
	require.ErrorIs(t, err, task.ErrAlreadyCompleted)
}

func TestTaskStore_LockTimeout(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore(Options{HomeDir: t.TempDir(), LockTimeout: 100 * time.Millisecond})

	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	held := flock.New(s.Path() + ".lock")
	require.NoError(t, held.Lock())
	defer held.Unlock() //nolint:errcheck

	_, err := s.Add(ctx, "A", 1)
	require.ErrorIs(t, err, ErrLockTimeout)

	require.NoError(t, held.Unlock())

	_, err = s.Add(ctx, "A", 1)
	require.NoError(t, err)
}

func TestTaskStore_LockDisabled(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore(Options{HomeDir: t.TempDir(), LockTimeout: -1})

	_, err := s.Add(ctx, "A", 1)
	require.NoError(t, err)

	_, err = os.Stat(s.Path() + ".lock")
	assert.True(t, os.IsNotExist(err))
}
