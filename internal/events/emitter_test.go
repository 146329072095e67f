package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*ProgressEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewProgressEvent(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	event, err := NewProgressEvent(EventCardReviewed, userID, map[string]int{"quality": 4})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventCardReviewed, event.Type)
	assert.Equal(t, userID, event.UserID)
	assert.False(t, event.CreatedAt.IsZero())

	var payload map[string]int
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, 4, payload["quality"])
}

func TestEmitEventDispatchesToAllHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(testLogger())

	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := NewProgressEvent(EventXPAwarded, uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(testLogger())

	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := NewProgressEvent(EventGoalsMet, uuid.New(), nil)
	require.NoError(t, err)

	emitErr := emitter.EmitEvent(context.Background(), event)
	assert.EqualError(t, emitErr, "boom")
	assert.Len(t, healthy.events, 1, "later handlers still run after a failure")
}

func TestEmitEventWithNoHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEventEmitter(testLogger())

	event, err := NewProgressEvent(EventLessonCompleted, uuid.New(), nil)
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}
