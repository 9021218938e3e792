package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
)

func waitForPrefixes(t *testing.T, cache *stubCache, want int) []string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if got := cache.prefixes(); len(got) >= want {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d invalidations, got %v", want, cache.prefixes())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCacheInvalidationService_LocationChangeDropsLocationPrefix(t *testing.T) {
	cache := &stubCache{}
	bus := newStubEventBus()
	service := services.NewCacheInvalidationService(cache, bus)

	require.NoError(t, service.Start())
	defer service.Stop()

	event := entities.NewChangeEvent(entities.ChangeKindLocation, 5, entities.ChangeActionUpdated)
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelChanges, event))

	prefixes := waitForPrefixes(t, cache, 1)
	assert.Contains(t, prefixes, "location:")
}

func TestCacheInvalidationService_VisitChangeDropsDetailAndListPrefixes(t *testing.T) {
	cache := &stubCache{}
	bus := newStubEventBus()
	service := services.NewCacheInvalidationService(cache, bus)

	require.NoError(t, service.Start())
	defer service.Stop()

	event := entities.NewChangeEvent(entities.ChangeKindVisit, 9, entities.ChangeActionCreated)
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelChanges, event))

	prefixes := waitForPrefixes(t, cache, 2)
	assert.Contains(t, prefixes, "location:detail:")
	assert.Contains(t, prefixes, "location:list:")
}
