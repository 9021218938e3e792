package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

func TestVisitService_CreateWithPhotos_ReturnsVisitAndPhotoCount(t *testing.T) {
	repo := &stubVisitRepo{}
	bus := newStubEventBus()
	service := services.NewVisitService(repo, bus)

	visit := &entities.Visit{
		LocationID: 3,
		VisitDate:  time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Notes:      "桜が満開だった",
		Rating:     4,
		CreatedBy:  1,
	}
	photos := []*entities.VisitPhoto{
		{FilePath: "content/uploads/a.jpg", CreatedBy: 1},
		{FilePath: "content/uploads/b.jpg", CreatedBy: 1},
	}

	result, err := service.CreateWithPhotos(context.Background(), visit, photos)

	require.NoError(t, err)
	assert.Equal(t, 2, result.PhotosCount)
	assert.Same(t, visit, result.Visit)
	require.Len(t, repo.withPhotos, 1)
	assert.Len(t, repo.withPhotos[0], 2)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.ChangeKindVisit, events[0].Kind)
}

func TestVisitService_CreateWithPhotos_RepoFailureReturnsNothing(t *testing.T) {
	repo := &stubVisitRepo{txErr: apperrors.NewInternalError("failed to create visit with photos", nil)}
	bus := newStubEventBus()
	service := services.NewVisitService(repo, bus)

	visit := &entities.Visit{LocationID: 3, VisitDate: time.Now(), Rating: 4}
	photos := []*entities.VisitPhoto{{FilePath: "content/uploads/a.jpg"}}

	result, err := service.CreateWithPhotos(context.Background(), visit, photos)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, bus.published(), "failed transaction must not publish an event")
}

func TestVisitService_Create_RejectsRatingAboveMax(t *testing.T) {
	service := services.NewVisitService(&stubVisitRepo{}, newStubEventBus())

	err := service.Create(context.Background(), &entities.Visit{
		LocationID: 1,
		VisitDate:  time.Now(),
		Rating:     6,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestVisitService_Create_RejectsMissingVisitDate(t *testing.T) {
	service := services.NewVisitService(&stubVisitRepo{}, newStubEventBus())

	err := service.Create(context.Background(), &entities.Visit{LocationID: 1, Rating: 3})

	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, "visit_date is required", appErr.Message)
}

func TestVisitService_ListByDateRange_PassesInclusiveBounds(t *testing.T) {
	repo := &stubVisitRepo{}
	service := services.NewVisitService(repo, newStubEventBus())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := service.ListByDateRange(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, repo.listFilters, 1)
	assert.Equal(t, from, *repo.listFilters[0].From)
	assert.Equal(t, to, *repo.listFilters[0].To)
}

func TestVisitService_ListByDateRange_RejectsInvertedRange(t *testing.T) {
	service := services.NewVisitService(&stubVisitRepo{}, newStubEventBus())

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := service.ListByDateRange(context.Background(), from, to)
	require.Error(t, err)
}

func TestVisitService_ListByMinRating_ValidatesScale(t *testing.T) {
	repo := &stubVisitRepo{}
	service := services.NewVisitService(repo, newStubEventBus())

	_, err := service.ListByMinRating(context.Background(), 6)
	require.Error(t, err)

	_, err = service.ListByMinRating(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, repo.listFilters, 1)
	assert.Equal(t, 4, *repo.listFilters[0].MinRating)
}
