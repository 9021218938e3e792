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

// VisitPhotoService handles business logic for visit photos
type VisitPhotoService struct {
	repo     repositories.VisitPhotoRepository
	eventBus providers.EventBus
}

// NewVisitPhotoService creates a new visit photo service
func NewVisitPhotoService(repo repositories.VisitPhotoRepository, eventBus providers.EventBus) *VisitPhotoService {
	return &VisitPhotoService{
		repo:     repo,
		eventBus: eventBus,
	}
}

func validatePhoto(photo *entities.VisitPhoto) error {
	if photo.VisitID <= 0 {
		return apperrors.NewValidationError("visit_id is required")
	}
	if photo.FilePath == "" {
		return apperrors.NewValidationError("file_path is required")
	}
	return nil
}

// Create validates and stores a new photo
func (s *VisitPhotoService) Create(ctx context.Context, photo *entities.VisitPhoto) error {
	if err := validatePhoto(photo); err != nil {
		return err
	}

	now := time.Now().UTC()
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = now
	}
	photo.UpdatedAt = now

	if err := s.repo.Create(ctx, photo); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisitPhoto, photo.ID, entities.ChangeActionCreated))
	return nil
}

// CreateMultiple stores a batch of photos for one visit in a single
// transaction and returns the number inserted.
func (s *VisitPhotoService) CreateMultiple(ctx context.Context, photos []*entities.VisitPhoto) (int, error) {
	if len(photos) == 0 {
		return 0, apperrors.NewValidationError("at least one photo is required")
	}

	now := time.Now().UTC()
	for _, photo := range photos {
		if err := validatePhoto(photo); err != nil {
			return 0, err
		}
		if photo.CreatedAt.IsZero() {
			photo.CreatedAt = now
		}
		photo.UpdatedAt = now
	}

	count, err := s.repo.CreateBatch(ctx, photos)
	if err != nil {
		return 0, err
	}

	for _, photo := range photos {
		s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisitPhoto, photo.ID, entities.ChangeActionCreated))
	}
	return count, nil
}

// GetByID retrieves a photo by ID
func (s *VisitPhotoService) GetByID(ctx context.Context, id int64) (*entities.VisitPhoto, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a photo's file path and description
func (s *VisitPhotoService) Update(ctx context.Context, photo *entities.VisitPhoto) error {
	if photo.FilePath == "" {
		return apperrors.NewValidationError("file_path is required")
	}

	photo.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, photo); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisitPhoto, photo.ID, entities.ChangeActionUpdated))
	return nil
}

// Delete removes a photo
func (s *VisitPhotoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisitPhoto, id, entities.ChangeActionDeleted))
	return nil
}

// List retrieves photos matching the filter
func (s *VisitPhotoService) List(ctx context.Context, filter repositories.VisitPhotoFilter) ([]*entities.VisitPhoto, error) {
	return s.repo.List(ctx, filter)
}

func (s *VisitPhotoService) publish(ctx context.Context, event *entities.ChangeEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelChanges, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish photo change event")
	}
}
