package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// VisitCreateResult is returned after a combined visit+photos creation.
type VisitCreateResult struct {
	Visit       *entities.Visit `json:"visit"`
	PhotosCount int             `json:"photos_count"`
}

// VisitService handles business logic for visits
type VisitService struct {
	repo     repositories.VisitRepository
	eventBus providers.EventBus
}

// NewVisitService creates a new visit service
func NewVisitService(repo repositories.VisitRepository, eventBus providers.EventBus) *VisitService {
	return &VisitService{
		repo:     repo,
		eventBus: eventBus,
	}
}

func validateVisit(visit *entities.Visit) error {
	if visit.LocationID <= 0 {
		return apperrors.NewValidationError("location_id is required")
	}
	if visit.VisitDate.IsZero() {
		return apperrors.NewValidationError("visit_date is required")
	}
	if visit.Rating < entities.MinRating || visit.Rating > entities.MaxRating {
		return apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", entities.MinRating, entities.MaxRating))
	}
	return nil
}

// Create validates and stores a new visit
func (s *VisitService) Create(ctx context.Context, visit *entities.Visit) error {
	if err := validateVisit(visit); err != nil {
		return err
	}

	now := time.Now().UTC()
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = now
	}
	visit.UpdatedAt = now

	if err := s.repo.Create(ctx, visit); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisit, visit.ID, entities.ChangeActionCreated))
	return nil
}

// CreateWithPhotos stores a visit together with its photos in one
// transaction. Either everything is persisted or nothing is.
func (s *VisitService) CreateWithPhotos(ctx context.Context, visit *entities.Visit, photos []*entities.VisitPhoto) (*VisitCreateResult, error) {
	if err := validateVisit(visit); err != nil {
		return nil, err
	}
	for _, photo := range photos {
		if photo.FilePath == "" {
			return nil, apperrors.NewValidationError("file_path is required for each photo")
		}
	}

	now := time.Now().UTC()
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = now
	}
	visit.UpdatedAt = now

	if err := s.repo.CreateWithPhotos(ctx, visit, photos); err != nil {
		return nil, err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisit, visit.ID, entities.ChangeActionCreated))
	return &VisitCreateResult{Visit: visit, PhotosCount: len(photos)}, nil
}

// GetByID retrieves a visit by ID
func (s *VisitService) GetByID(ctx context.Context, id int64) (*entities.Visit, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to a visit
func (s *VisitService) Update(ctx context.Context, visit *entities.Visit) error {
	if visit.Rating < entities.MinRating || visit.Rating > entities.MaxRating {
		return apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", entities.MinRating, entities.MaxRating))
	}

	visit.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, visit); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisit, visit.ID, entities.ChangeActionUpdated))
	return nil
}

// Delete removes a visit
func (s *VisitService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, entities.NewChangeEvent(entities.ChangeKindVisit, id, entities.ChangeActionDeleted))
	return nil
}

// List retrieves visits matching the filter, newest visit first
func (s *VisitService) List(ctx context.Context, filter repositories.VisitFilter) ([]*entities.VisitWithLocation, error) {
	return s.repo.List(ctx, filter)
}

// ListByDateRange retrieves visits whose visit date falls inside the
// inclusive [from, to] range.
func (s *VisitService) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entities.VisitWithLocation, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("date range end must not be before start")
	}
	return s.repo.List(ctx, repositories.VisitFilter{From: &from, To: &to})
}

// ListByMinRating retrieves visits rated at least minRating. Legacy
// ten-point ratings are normalized before comparison.
func (s *VisitService) ListByMinRating(ctx context.Context, minRating int) ([]*entities.VisitWithLocation, error) {
	if minRating < entities.MinRating || minRating > entities.MaxRating {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", entities.MinRating, entities.MaxRating))
	}
	return s.repo.List(ctx, repositories.VisitFilter{MinRating: &minRating})
}

func (s *VisitService) publish(ctx context.Context, event *entities.ChangeEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelChanges, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish visit change event")
	}
}
