package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []Event
	d.Subscribe(EventSessionCleared, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventCartCountChanged, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	event := New(EventSessionCleared, SessionClearedPayload{Reason: ReasonLogout})
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, got, 1)
	assert.Equal(t, event.ID, got[0].ID)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, ReasonLogout, got[0].Payload.(SessionClearedPayload).Reason)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	calls := 0
	d.Subscribe(EventSessionStarted, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventSessionStarted, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventSessionStarted, nil)))
	assert.Equal(t, 2, calls)
}
