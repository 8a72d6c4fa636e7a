package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNilViewRecorder = errors.New("view recorder cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
	ErrEmptyProductID  = errors.New("product ID cannot be empty")
)

// ViewRecorder defines the store operation the product view task needs.
// store.ProductStore satisfies it.
type ViewRecorder interface {
	// IncrementViewCount atomically bumps the product's view counter
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

// productViewPayload represents the serialized data stored in the task
type productViewPayload struct {
	ProductID uuid.UUID `json:"product_id"`
}

// ProductViewTask implements the Task interface for recording a product
// detail view. View counting happens off the request path so a slow write
// never delays the response.
type ProductViewTask struct {
	id        uuid.UUID
	productID uuid.UUID
	recorder  ViewRecorder
	logger    *slog.Logger
	status    TaskStatus
}

// NewProductViewTask creates a new product view task
func NewProductViewTask(
	productID uuid.UUID,
	recorder ViewRecorder,
	logger *slog.Logger,
) (*ProductViewTask, error) {
	if recorder == nil {
		return nil, ErrNilViewRecorder
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if productID == uuid.Nil {
		return nil, ErrEmptyProductID
	}

	return &ProductViewTask{
		id:        uuid.New(),
		productID: productID,
		recorder:  recorder,
		logger:    logger.With("task_type", TaskTypeProductView, "product_id", productID),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ProductViewTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ProductViewTask) Type() string {
	return TaskTypeProductView
}

// Payload returns the serialized task data
func (t *ProductViewTask) Payload() []byte {
	payload := productViewPayload{ProductID: t.productID}
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload is a single UUID; marshaling cannot realistically fail
		t.logger.Error("failed to marshal product view payload", "error", err)
		return nil
	}
	return data
}

// Status returns the current task status
func (t *ProductViewTask) Status() TaskStatus {
	return t.status
}

// Execute records the view against the product
func (t *ProductViewTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	if err := t.recorder.IncrementViewCount(ctx, t.productID); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to record product view: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Debug("recorded product view")
	return nil
}

// ProductViewTaskFactory creates ProductViewTask instances
type ProductViewTaskFactory struct {
	recorder ViewRecorder
	logger   *slog.Logger
}

// NewProductViewTaskFactory creates a new factory for ProductViewTasks
func NewProductViewTaskFactory(recorder ViewRecorder, logger *slog.Logger) *ProductViewTaskFactory {
	return &ProductViewTaskFactory{
		recorder: recorder,
		logger:   logger.With("component", "product_view_task_factory"),
	}
}

// CreateTask creates a new ProductViewTask for the specified product
func (f *ProductViewTaskFactory) CreateTask(productID uuid.UUID) (Task, error) {
	return NewProductViewTask(productID, f.recorder, f.logger)
}
