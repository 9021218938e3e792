//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/adapters/events"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
)

func waitForChangeEvent(t *testing.T, ch <-chan *entities.ChangeEvent) *entities.ChangeEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
		return nil
	}
}

func TestRedisEventBusFanout(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	channel := providers.EventChannelChanges
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewChangeEvent(entities.ChangeKindLocation, 42, entities.ChangeActionUpdated)

	require.NoError(t, eventBus.Publish(context.Background(), channel, event))

	received1 := waitForChangeEvent(t, sub1)
	received2 := waitForChangeEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, entities.ChangeKindLocation, received1.Kind)
	assert.Equal(t, int64(42), received1.EntityID)
}

func TestRedisEventBusUnsubscribeStopsDelivery(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	channel := providers.EventChannelChanges
	ctx := context.Background()

	sub, err := eventBus.Subscribe(ctx, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, eventBus.Unsubscribe(ctx, channel))

	event := entities.NewChangeEvent(entities.ChangeKindVisit, 7, entities.ChangeActionCreated)
	require.NoError(t, eventBus.Publish(ctx, channel, event))

	select {
	case received, ok := <-sub:
		if ok {
			t.Fatalf("expected no delivery after unsubscribe, got %v", received)
		}
	case <-time.After(500 * time.Millisecond):
	}
}
