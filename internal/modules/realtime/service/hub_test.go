package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHubDeliversToThreadSubscribers(t *testing.T) {
	hub := NewLocalHub()
	ctx := context.Background()
	threadID := uuid.New()
	otherThread := uuid.New()

	events, unsubscribe, err := hub.Subscribe(ctx, threadID)
	require.NoError(t, err)
	defer unsubscribe()

	postID := uuid.New()
	require.NoError(t, hub.Publish(ctx, Event{Type: EventPostDeleted, ThreadID: otherThread}))
	require.NoError(t, hub.Publish(ctx, Event{Type: EventPostDeleted, ThreadID: threadID, PostID: &postID}))

	select {
	case raw := <-events:
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, EventPostDeleted, got.Type)
		assert.Equal(t, threadID, got.ThreadID)
		require.NotNil(t, got.PostID)
		assert.Equal(t, postID, *got.PostID)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}

	select {
	case raw := <-events:
		t.Fatalf("unexpected event %s", raw)
	default:
	}
}

func TestLocalHubUnsubscribe(t *testing.T) {
	hub := NewLocalHub()
	threadID := uuid.New()

	events, unsubscribe, err := hub.Subscribe(context.Background(), threadID)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers(threadID))

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Subscribers(threadID))

	_, open := <-events
	assert.False(t, open)
	assert.NoError(t, hub.Publish(context.Background(), Event{Type: EventThreadDeleted, ThreadID: threadID}))
}

func TestNewHubWithoutRedis(t *testing.T) {
	_, ok := NewHub(nil).(*LocalHub)
	assert.True(t, ok)
}
