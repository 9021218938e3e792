package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
)

// CacheInvalidationService listens for change events and removes the
// cache entries they make stale.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for change events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelChanges)
	if err != nil {
		return fmt.Errorf("failed to subscribe to change events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ChangeEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent invalidates the cache entries affected by one change.
// Visit and photo changes also drop location detail entries because
// details embed the visit list.
func (s *CacheInvalidationService) handleEvent(event *entities.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Debug().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Int64("entity_id", event.EntityID).
		Str("action", string(event.Action)).
		Msg("processing cache invalidation")

	var prefixes []string
	switch event.Kind {
	case entities.ChangeKindLocation:
		prefixes = []string{"location:"}
	case entities.ChangeKindVisit, entities.ChangeKindVisitPhoto:
		prefixes = []string{"location:detail:", "location:list:"}
	default:
		return
	}

	for _, prefix := range prefixes {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache prefix")
		}
	}
}
