package pom

import (
	"bytes"
	"context"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/pom/internal/core/task"
	"github.com/hay-kot/pom/internal/store/jsonfile"
)

func newTestTaskService(t *testing.T) (*TaskService, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	store := jsonfile.NewTaskStore(jsonfile.Options{HomeDir: t.TempDir()})
	svc := NewTaskService(store, zerolog.New(&logs))
	return svc, &logs
}

func TestTaskService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and logs", func(t *testing.T) {
		svc, logs := newTestTaskService(t)

		created, err := svc.Add(ctx, "A", 3)
		require.NoError(t, err)
		assert.Equal(t, task.New("A", 3), created)

		assert.Contains(t, logs.String(), `"component":"task-service"`)
		assert.Contains(t, logs.String(), `"message":"task added"`)
	})

	t.Run("rejects blank id", func(t *testing.T) {
		svc, _ := newTestTaskService(t)

		_, err := svc.Add(ctx, "  ", 3)
		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)

		tasks, err := svc.List(ctx, task.Filter{State: task.StateAll})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("wraps duplicate", func(t *testing.T) {
		svc, _ := newTestTaskService(t)

		_, err := svc.Add(ctx, "A", 3)
		require.NoError(t, err)

		_, err = svc.Add(ctx, "A", 3)
		require.ErrorIs(t, err, task.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "add task")
	})
}

func TestTaskService_Complete(t *testing.T) {
	ctx := context.Background()
	svc, logs := newTestTaskService(t)

	_, err := svc.Add(ctx, "A", 3)
	require.NoError(t, err)

	effort := "2"
	done, err := svc.Complete(ctx, "A", &effort)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Contains(t, logs.String(), `"effort":"2"`)

	_, err = svc.Complete(ctx, "A", nil)
	require.ErrorIs(t, err, task.ErrAlreadyCompleted)

	_, err = svc.Complete(ctx, "B", nil)
	require.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	_, ok, err := svc.Get(ctx, "A")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Add(ctx, "A", 1)
	require.NoError(t, err)

	got, ok, err := svc.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A", got.ID)
}

func TestTaskService_StorePath(t *testing.T) {
	svc, _ := newTestTaskService(t)
	assert.Contains(t, svc.StorePath(), "data.json")
}
