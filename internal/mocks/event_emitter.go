package mocks

import (
	"context"
	"sync"

	"github.com/bahasabuddy/api/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing
type MockEventEmitter struct {
	// Function field for customizable behavior
	EmitEventFn func(ctx context.Context, event *events.ProgressEvent) error

	// Default response value
	Err error

	// Call tracking for verification
	mu     sync.Mutex
	Events []*events.ProgressEvent
}

// EmitEvent implements the events.EventEmitter interface
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.ProgressEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return m.Err
}

// EventsOfType returns the recorded events matching the given type.
func (m *MockEventEmitter) EventsOfType(eventType string) []*events.ProgressEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*events.ProgressEvent
	for _, event := range m.Events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
