//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabilog/tabilog/backend/internal/adapters/database"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

func TestLocationAdapterLifecycle(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	client := newTestPostgresClient(t)
	defer client.Close()

	runMigrations(t, client, "../../migrations/schema.sql")
	ctx := context.Background()

	_, err := client.DB().ExecContext(ctx,
		`TRUNCATE TABLE visit_photos, visits, locations, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	userRepo := database.NewUserAdapter(client)
	user := &entities.User{Username: "integration"}
	require.NoError(t, userRepo.Create(ctx, user))

	locationRepo := database.NewLocationAdapter(client)
	visitRepo := database.NewVisitAdapter(client)

	location := &entities.Location{
		Name:      "東京タワー",
		Latitude:  35.6586,
		Longitude: 139.7454,
		CreatedBy: user.ID,
		UpdatedBy: user.ID,
	}
	require.NoError(t, locationRepo.Create(ctx, location))
	require.NotZero(t, location.ID)

	visit := &entities.Visit{
		LocationID: location.ID,
		VisitDate:  time.Now().UTC().Truncate(24 * time.Hour),
		Rating:     4,
		CreatedBy:  user.ID,
		UpdatedBy:  user.ID,
	}
	require.NoError(t, visitRepo.Create(ctx, visit))

	// The visit blocks deletion of its location.
	err = locationRepo.Delete(ctx, location.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)

	detail, err := locationRepo.GetDetail(ctx, location.ID)
	require.NoError(t, err)
	require.Len(t, detail.Visits, 1)
	assert.Equal(t, visit.ID, detail.Visits[0].ID)

	summaries, err := locationRepo.List(ctx, repositories.LocationFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "integration", summaries[0].CreatorUsername)
	assert.Equal(t, 1, summaries[0].VisitCount)

	require.NoError(t, visitRepo.Delete(ctx, visit.ID))
	require.NoError(t, locationRepo.Delete(ctx, location.ID))
}
