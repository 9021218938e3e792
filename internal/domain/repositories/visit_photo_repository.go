package repositories

import (
	"context"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// VisitPhotoRepository defines the interface for visit photo data operations
type VisitPhotoRepository interface {
	// Create creates a new visit photo
	Create(ctx context.Context, photo *entities.VisitPhoto) error

	// CreateBatch inserts multiple photos for one visit in a single
	// transaction and returns the number inserted.
	CreateBatch(ctx context.Context, photos []*entities.VisitPhoto) (int, error)

	// GetByID retrieves a photo by ID
	GetByID(ctx context.Context, id int64) (*entities.VisitPhoto, error)

	// List retrieves photos with filters ordered by creation time descending
	List(ctx context.Context, filter VisitPhotoFilter) ([]*entities.VisitPhoto, error)

	// Update updates a photo's file path and description
	Update(ctx context.Context, photo *entities.VisitPhoto) error

	// Delete deletes a photo
	Delete(ctx context.Context, id int64) error
}

// VisitPhotoFilter defines filters for listing visit photos
type VisitPhotoFilter struct {
	VisitID    *int64
	UserID     *int64
	LocationID *int64
	Limit      int
	Offset     int
}
