package task

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/events"
)

type mockViewRecorder struct {
	mu        sync.Mutex
	recorded  []uuid.UUID
	returnErr error
}

func (m *mockViewRecorder) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return m.returnErr
	}
	m.recorded = append(m.recorded, id)
	return nil
}

func TestNewProductViewTask(t *testing.T) {
	recorder := &mockViewRecorder{}

	t.Run("rejects nil recorder", func(t *testing.T) {
		_, err := NewProductViewTask(uuid.New(), nil, testLogger())
		assert.ErrorIs(t, err, ErrNilViewRecorder)
	})

	t.Run("rejects empty product ID", func(t *testing.T) {
		_, err := NewProductViewTask(uuid.Nil, recorder, testLogger())
		assert.ErrorIs(t, err, ErrEmptyProductID)
	})

	t.Run("payload carries the product ID", func(t *testing.T) {
		productID := uuid.New()
		tsk, err := NewProductViewTask(productID, recorder, testLogger())
		require.NoError(t, err)

		var payload struct {
			ProductID uuid.UUID `json:"product_id"`
		}
		require.NoError(t, json.Unmarshal(tsk.Payload(), &payload))
		assert.Equal(t, productID, payload.ProductID)
		assert.Equal(t, TaskTypeProductView, tsk.Type())
		assert.Equal(t, TaskStatusPending, tsk.Status())
	})
}

func TestProductViewTaskExecute(t *testing.T) {
	t.Run("records the view", func(t *testing.T) {
		recorder := &mockViewRecorder{}
		productID := uuid.New()
		tsk, err := NewProductViewTask(productID, recorder, testLogger())
		require.NoError(t, err)

		require.NoError(t, tsk.Execute(context.Background()))
		assert.Equal(t, []uuid.UUID{productID}, recorder.recorded)
		assert.Equal(t, TaskStatusCompleted, tsk.Status())
	})

	t.Run("propagates recorder failure", func(t *testing.T) {
		recorder := &mockViewRecorder{returnErr: errors.New("db down")}
		tsk, err := NewProductViewTask(uuid.New(), recorder, testLogger())
		require.NoError(t, err)

		assert.Error(t, tsk.Execute(context.Background()))
		assert.Equal(t, TaskStatusFailed, tsk.Status())
	})
}

type capturingSubmitter struct {
	submitted []Task
}

func (s *capturingSubmitter) Submit(ctx context.Context, task Task) error {
	s.submitted = append(s.submitted, task)
	return nil
}

func TestProductViewEventHandler(t *testing.T) {
	recorder := &mockViewRecorder{}
	factory := NewProductViewTaskFactory(recorder, testLogger())

	t.Run("creates and submits a task for view events", func(t *testing.T) {
		submitter := &capturingSubmitter{}
		handler := NewProductViewEventHandler(factory, submitter, testLogger())

		productID := uuid.New()
		event, err := events.NewTaskRequestEvent(TaskTypeProductView, map[string]string{
			"product_id": productID.String(),
		})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, TaskTypeProductView, submitter.submitted[0].Type())
	})

	t.Run("ignores events of other types", func(t *testing.T) {
		submitter := &capturingSubmitter{}
		handler := NewProductViewEventHandler(factory, submitter, testLogger())

		event, err := events.NewTaskRequestEvent("something_else", map[string]string{})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})

	t.Run("rejects malformed product IDs", func(t *testing.T) {
		submitter := &capturingSubmitter{}
		handler := NewProductViewEventHandler(factory, submitter, testLogger())

		event, err := events.NewTaskRequestEvent(TaskTypeProductView, map[string]string{
			"product_id": "not-a-uuid",
		})
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})
}
