package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

func TestLocationService_Create_RejectsOutOfRangeLatitude(t *testing.T) {
	repo := &stubLocationRepo{}
	service := services.NewLocationService(repo, newStubEventBus())

	err := service.Create(context.Background(), &entities.Location{
		Name:      "成層圏基地",
		Latitude:  95,
		Longitude: 139.76,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "緯度は-90から90の間で入力してください", appErr.Message)
	assert.Empty(t, repo.created, "invalid location must not reach the repository")
}

func TestLocationService_Create_RejectsOutOfRangeLongitude(t *testing.T) {
	service := services.NewLocationService(&stubLocationRepo{}, newStubEventBus())

	err := service.Create(context.Background(), &entities.Location{
		Name:      "どこか",
		Latitude:  35.68,
		Longitude: -181,
	})

	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, "経度は-180から180の間で入力してください", appErr.Message)
}

func TestLocationService_Create_RejectsEmptyName(t *testing.T) {
	service := services.NewLocationService(&stubLocationRepo{}, newStubEventBus())

	err := service.Create(context.Background(), &entities.Location{
		Latitude:  35.68,
		Longitude: 139.76,
	})

	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, "名前を入力してください", appErr.Message)
}

func TestLocationService_Create_AcceptsBoundaryCoordinates(t *testing.T) {
	repo := &stubLocationRepo{}
	bus := newStubEventBus()
	service := services.NewLocationService(repo, bus)

	err := service.Create(context.Background(), &entities.Location{
		Name:      "南極点",
		Latitude:  -90,
		Longitude: 180,
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.False(t, repo.created[0].CreatedAt.IsZero())

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.ChangeKindLocation, events[0].Kind)
	assert.Equal(t, entities.ChangeActionCreated, events[0].Action)
}

func TestLocationService_Delete_PublishesChangeEvent(t *testing.T) {
	repo := &stubLocationRepo{}
	bus := newStubEventBus()
	service := services.NewLocationService(repo, bus)

	require.NoError(t, service.Delete(context.Background(), 7))

	assert.Equal(t, []int64{7}, repo.deleted)
	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].EntityID)
	assert.Equal(t, entities.ChangeActionDeleted, events[0].Action)
}

func TestLocationService_Delete_SurfacesConflict(t *testing.T) {
	repo := &stubLocationRepo{
		deleteErr: apperrors.NewConflictError("location 7 cannot be deleted, it may have related records"),
	}
	bus := newStubEventBus()
	service := services.NewLocationService(repo, bus)

	err := service.Delete(context.Background(), 7)

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Empty(t, bus.published(), "failed delete must not publish an event")
}
