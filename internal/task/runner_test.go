package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// waitForStatus polls the store until the task reaches want.
func waitForStatus(t *testing.T, store *MockTaskStore, id uuid.UUID, want TaskStatus) Record {
	t.Helper()
	var rec Record
	require.Eventually(t, func() bool {
		var err error
		rec, err = store.Get(id)
		return err == nil && rec.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return rec
}

func TestTaskRunner_Submit(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	t.Run("successful submission", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), logger)

		task := CreateMockTaskWithPayload("test task")
		require.NoError(t, runner.Submit(context.Background(), task))

		rec, err := store.Get(task.ID())
		require.NoError(t, err)
		assert.Equal(t, TaskStatusPending, rec.Status)
		assert.Equal(t, "mock_task", rec.Type)
	})

	t.Run("queue full", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		config := DefaultTaskRunnerConfig()
		config.QueueSize = 1
		runner := NewTaskRunner(store, config, logger)

		require.NoError(t, runner.Submit(context.Background(), CreateMockTaskWithPayload("task 1")))

		task2 := CreateMockTaskWithPayload("task 2")
		err := runner.Submit(context.Background(), task2)
		assert.ErrorIs(t, err, ErrQueueFull)

		rec, err := store.Get(task2.ID())
		require.NoError(t, err)
		assert.Equal(t, TaskStatusFailed, rec.Status)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		store := NewMockTaskStore()
		store.SaveFn = func(ctx context.Context, task Task) error {
			return errors.New("mock store error")
		}
		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), logger)

		err := runner.Submit(context.Background(), CreateMockTaskWithPayload("error task"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
	})

	t.Run("after stop", func(t *testing.T) {
		t.Parallel()

		runner := NewTaskRunner(NewMockTaskStore(), DefaultTaskRunnerConfig(), logger)
		require.NoError(t, runner.Start())
		runner.Stop()
		runner.Stop()

		err := runner.Submit(context.Background(), CreateMockTaskWithPayload("late"))
		assert.ErrorIs(t, err, ErrRunnerStopped)
		assert.ErrorIs(t, runner.Start(), ErrRunnerStopped)
	})
}

func TestTaskRunner_Start_and_Processing(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	config := DefaultTaskRunnerConfig()
	config.WorkerCount = 2
	config.QueueSize = 10
	runner := NewTaskRunner(store, config, testLogger())

	taskCompletedChan := make(chan uuid.UUID, 5)
	ids := make([]uuid.UUID, 0, 3)

	for i := 0; i < 3; i++ {
		task := CreateMockTaskWithPayload("test task")
		ids = append(ids, task.ID())
		task.ExecuteFn = func(ctx context.Context) error {
			taskCompletedChan <- task.ID()
			return nil
		}
		require.NoError(t, runner.Submit(context.Background(), task))
	}

	require.NoError(t, runner.Start())
	defer runner.Stop()

	completed := make(map[uuid.UUID]bool)
	timeout := time.After(2 * time.Second)
	for len(completed) < 3 {
		select {
		case id := <-taskCompletedChan:
			completed[id] = true
		case <-timeout:
			t.Fatal("timed out waiting for tasks")
		}
	}

	for _, id := range ids {
		waitForStatus(t, store, id, TaskStatusCompleted)
	}
}

func TestTaskRunner_TaskFailure(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())

	errorChan := make(chan error, 1)
	runner.SetErrorHandler(func(task Task, err error) {
		errorChan <- err
	})

	task := CreateMockTaskWithPayload("failing task")
	task.ExecuteFn = func(ctx context.Context) error {
		return errors.New("intentional test failure")
	}
	require.NoError(t, runner.Submit(context.Background(), task))
	require.NoError(t, runner.Start())
	defer runner.Stop()

	select {
	case err := <-errorChan:
		assert.EqualError(t, err, "intentional test failure")
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for error handler to be called")
	}

	rec := waitForStatus(t, store, task.ID(), TaskStatusFailed)
	assert.Equal(t, "intentional test failure", rec.Error)
}

func TestTaskRunner_StopCancelsRunningTask(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())

	started := make(chan struct{})
	task := CreateMockTaskWithPayload("long task")
	task.ExecuteFn = func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
	require.NoError(t, runner.Submit(context.Background(), task))
	require.NoError(t, runner.Start())

	<-started
	runner.Stop()

	rec, err := store.Get(task.ID())
	require.NoError(t, err)
	assert.Equal(t, TaskStatusFailed, rec.Status)
}

func TestTaskRunner_TaskTimeout(t *testing.T) {
	t.Parallel()

	store := NewMockTaskStore()
	config := DefaultTaskRunnerConfig()
	config.TaskTimeout = 20 * time.Millisecond
	runner := NewTaskRunner(store, config, testLogger())

	task := CreateMockTaskWithPayload("slow task")
	task.ExecuteFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	require.NoError(t, runner.Submit(context.Background(), task))
	require.NoError(t, runner.Start())
	defer runner.Stop()

	rec := waitForStatus(t, store, task.ID(), TaskStatusFailed)
	assert.Contains(t, rec.Error, "deadline exceeded")
}

func TestMemoryTaskStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryTaskStore()
	task := CreateMockTaskWithPayload("x")

	assert.ErrorIs(t, s.UpdateTaskStatus(ctx, task.ID(), TaskStatusCompleted, ""), ErrTaskNotFound)
	_, err := s.Get(task.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, s.SaveTask(ctx, task))
	require.NoError(t, s.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""))

	assert.Equal(t, map[TaskStatus]int{TaskStatusProcessing: 1}, s.Counts())
}
