package repositories

import (
	"context"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// List retrieves all users ordered by creation time
	List(ctx context.Context) ([]*entities.User, error)

	// Delete deletes a user
	Delete(ctx context.Context, id int64) error
}
