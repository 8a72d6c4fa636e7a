package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storefront-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.TaskRequestEvent) error

	mu      sync.Mutex
	Emitted []*events.TaskRequestEvent
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements the EventEmitter interface. The default records the
// event for later inspection.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emitted = append(m.Emitted, event)
	return nil
}

// EmittedEvents returns a snapshot of the recorded events.
func (m *MockEventEmitter) EmittedEvents() []*events.TaskRequestEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskRequestEvent, len(m.Emitted))
	copy(out, m.Emitted)
	return out
}
