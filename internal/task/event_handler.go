package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/events"
)

// TaskFactory creates tasks for a given subject ID.
type TaskFactory interface {
	// CreateTask creates a new task for the specified subject
	CreateTask(subjectID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for background execution.
// *TaskRunner satisfies it.
type TaskSubmitter interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task Task) error
}

// ProductViewEventHandler implements the events.EventHandler interface.
// It turns product view events into persisted background tasks.
type ProductViewEventHandler struct {
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewProductViewEventHandler creates an event handler that uses the given
// factory to create view tasks and submits them to the provided runner.
func NewProductViewEventHandler(
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *ProductViewEventHandler {
	return &ProductViewEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "product_view_event_handler"),
	}
}

// Ensure ProductViewEventHandler implements events.EventHandler
var _ events.EventHandler = (*ProductViewEventHandler)(nil)

// HandleEvent processes product view events by creating and submitting tasks.
// Events of other types are ignored so additional handlers can coexist on the
// same emitter.
func (h *ProductViewEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeProductView {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		ProductID string `json:"product_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		h.logger.Error("invalid product ID",
			"error", err,
			"product_id", payload.ProductID,
			"event_id", event.ID)
		return fmt.Errorf("invalid product ID: %w", err)
	}

	task, err := h.factory.CreateTask(productID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"product_id", productID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"product_id", productID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("view task created and submitted",
		"task_id", task.ID(),
		"product_id", productID,
		"event_id", event.ID)
	return nil
}
