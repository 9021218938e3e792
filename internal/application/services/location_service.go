package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// LocationService handles business logic for locations
type LocationService struct {
	repo     repositories.LocationRepository
	eventBus providers.EventBus
}

// NewLocationService creates a new location service
func NewLocationService(repo repositories.LocationRepository, eventBus providers.EventBus) *LocationService {
	return &LocationService{
		repo:     repo,
		eventBus: eventBus,
	}
}

func validateLocation(location *entities.Location) error {
	if location.Name == "" {
		return apperrors.NewValidationError("名前を入力してください")
	}
	if location.Latitude < -90 || location.Latitude > 90 {
		return apperrors.NewValidationError("緯度は-90から90の間で入力してください")
	}
	if location.Longitude < -180 || location.Longitude > 180 {
		return apperrors.NewValidationError("経度は-180から180の間で入力してください")
	}
	return nil
}

// Create validates and stores a new location
func (s *LocationService) Create(ctx context.Context, location *entities.Location) error {
	if err := validateLocation(location); err != nil {
		return err
	}

	now := time.Now().UTC()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	location.UpdatedAt = now

	if err := s.repo.Create(ctx, location); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindLocation, location.ID, entities.ChangeActionCreated))
	return nil
}

// GetByID retrieves a location by ID
func (s *LocationService) GetByID(ctx context.Context, id int64) (*entities.Location, error) {
	return s.repo.GetByID(ctx, id)
}

// GetDetail retrieves a location together with its visits
func (s *LocationService) GetDetail(ctx context.Context, id int64) (*entities.LocationDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

// Update validates and updates an existing location
func (s *LocationService) Update(ctx context.Context, location *entities.Location) error {
	if err := validateLocation(location); err != nil {
		return err
	}

	location.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, location); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindLocation, location.ID, entities.ChangeActionUpdated))
	return nil
}

// Delete removes a location. Locations with recorded visits cannot be
// deleted and surface a conflict error instead.
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindLocation, id, entities.ChangeActionDeleted))
	return nil
}

// List retrieves location summaries with creator and visit counts
func (s *LocationService) List(ctx context.Context, filter repositories.LocationFilter) ([]*entities.LocationSummary, error) {
	return s.repo.List(ctx, filter)
}

func (s *LocationService) publish(ctx context.Context, event *entities.ChangeEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelChanges, event); err != nil {
		// Eventual consistency: the write already succeeded, cache entries
		// expire via TTL if the invalidation event is lost.
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish location change event")
	}
}
