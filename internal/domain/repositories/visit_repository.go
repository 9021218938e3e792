package repositories

import (
	"context"
	"time"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// VisitRepository defines the interface for visit data operations
type VisitRepository interface {
	// Create creates a new visit
	Create(ctx context.Context, visit *entities.Visit) error

	// CreateWithPhotos creates a visit and all accompanying photos in a
	// single transaction. Either everything persists or nothing does.
	CreateWithPhotos(ctx context.Context, visit *entities.Visit, photos []*entities.VisitPhoto) error

	// GetByID retrieves a visit by ID
	GetByID(ctx context.Context, id int64) (*entities.Visit, error)

	// Update applies a partial update to a visit
	Update(ctx context.Context, visit *entities.Visit) error

	// Delete deletes a visit
	Delete(ctx context.Context, id int64) error

	// List retrieves visits with filters, joined with the location name,
	// ordered by visit date descending.
	List(ctx context.Context, filter VisitFilter) ([]*entities.VisitWithLocation, error)
}

// VisitFilter defines filters for listing visits.
// The date range is inclusive on both ends.
type VisitFilter struct {
	LocationID *int64
	UserID     *int64
	From       *time.Time
	To         *time.Time
	MinRating  *int
	Limit      int
	Offset     int
}
