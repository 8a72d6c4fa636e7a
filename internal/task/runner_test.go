package task

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskStore is an in-memory TaskStore for runner tests.
type mockTaskStore struct {
	mu       sync.Mutex
	saved    []Task
	statuses map[uuid.UUID]TaskStatus
	saveErr  error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{statuses: make(map[uuid.UUID]TaskStatus)}
}

func (m *mockTaskStore) SaveTask(ctx context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t)
	m.statuses[t.ID()] = t.Status()
	return nil
}

func (m *mockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[taskID] = status
	return nil
}

func (m *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []Task
	for _, t := range m.saved {
		if m.statuses[t.ID()] == TaskStatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (m *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var processing []Task
	for _, t := range m.saved {
		if m.statuses[t.ID()] == TaskStatusProcessing {
			processing = append(processing, t)
		}
	}
	return processing, nil
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) TaskStore { return m }

func (m *mockTaskStore) statusOf(id uuid.UUID) TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

// testTask is a controllable Task implementation.
type testTask struct {
	id       uuid.UUID
	execErr  error
	executed chan struct{}
	once     sync.Once
}

func newTestTask(execErr error) *testTask {
	return &testTask{
		id:       uuid.New(),
		execErr:  execErr,
		executed: make(chan struct{}),
	}
}

func (t *testTask) ID() uuid.UUID      { return t.id }
func (t *testTask) Type() string       { return "test_task" }
func (t *testTask) Payload() []byte    { return []byte(`{}`) }
func (t *testTask) Status() TaskStatus { return TaskStatusPending }

func (t *testTask) Execute(ctx context.Context) error {
	t.once.Do(func() { close(t.executed) })
	return t.execErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForStatus(t *testing.T, store *mockTaskStore, id uuid.UUID, want TaskStatus) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if store.statusOf(id) == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("task %s never reached status %s (last: %s)", id, want, store.statusOf(id))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTaskRunnerExecutesSubmittedTask(t *testing.T) {
	store := newMockTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	tsk := newTestTask(nil)
	require.NoError(t, runner.Submit(context.Background(), tsk))

	select {
	case <-tsk.executed:
	case <-time.After(2 * time.Second):
		t.Fatal("task was never executed")
	}

	waitForStatus(t, store, tsk.ID(), TaskStatusCompleted)
}

func TestTaskRunnerMarksFailedTask(t *testing.T) {
	store := newMockTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	tsk := newTestTask(errors.New("boom"))
	require.NoError(t, runner.Submit(context.Background(), tsk))

	waitForStatus(t, store, tsk.ID(), TaskStatusFailed)
}

func TestTaskRunnerSubmitFailsWhenStoreFails(t *testing.T) {
	store := newMockTaskStore()
	store.saveErr = errors.New("db down")
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())

	err := runner.Submit(context.Background(), newTestTask(nil))
	assert.Error(t, err)
}

func TestTaskRunnerRecoversPendingTasks(t *testing.T) {
	store := newMockTaskStore()

	// Seed a pending task as if a previous process saved it and crashed.
	tsk := newTestTask(nil)
	require.NoError(t, store.SaveTask(context.Background(), tsk))

	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	select {
	case <-tsk.executed:
	case <-time.After(2 * time.Second):
		t.Fatal("recovered task was never executed")
	}
}
