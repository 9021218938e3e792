package repositories

import (
	"context"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// LocationRepository defines the interface for location data operations
type LocationRepository interface {
	// Create creates a new location
	Create(ctx context.Context, location *entities.Location) error

	// GetByID retrieves a location by ID
	GetByID(ctx context.Context, id int64) (*entities.Location, error)

	// GetDetail retrieves a location together with its full visit history
	GetDetail(ctx context.Context, id int64) (*entities.LocationDetail, error)

	// Update updates a location
	Update(ctx context.Context, location *entities.Location) error

	// Delete deletes a location. Fails with a conflict error while
	// visits still reference it.
	Delete(ctx context.Context, id int64) error

	// List retrieves location summaries (creator username, visit count)
	// ordered by creation time descending.
	List(ctx context.Context, filter LocationFilter) ([]*entities.LocationSummary, error)
}

// LocationFilter defines filters for listing locations
type LocationFilter struct {
	CreatedBy *int64
	Limit     int
	Offset    int
}
