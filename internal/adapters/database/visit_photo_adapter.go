package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// VisitPhotoAdapter implements the VisitPhotoRepository interface
type VisitPhotoAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVisitPhotoAdapter creates a new visit photo adapter
func NewVisitPhotoAdapter(client *postgres.Client) repositories.VisitPhotoRepository {
	return &VisitPhotoAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func photoInsertRecord(photo *entities.VisitPhoto) goqu.Record {
	return goqu.Record{
		"visit_id":    photo.VisitID,
		"file_path":   photo.FilePath,
		"description": photo.Description,
		"created_by":  photo.CreatedBy,
		"updated_by":  photo.UpdatedBy,
		"created_at":  photo.CreatedAt,
		"updated_at":  photo.UpdatedAt,
	}
}

// Create creates a new visit photo
func (a *VisitPhotoAdapter) Create(ctx context.Context, photo *entities.VisitPhoto) error {
	now := time.Now()
	photo.CreatedAt = now
	photo.UpdatedAt = now

	query, args, err := a.db.Insert("visit_photos").
		Rows(photoInsertRecord(photo)).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&photo.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError(fmt.Sprintf("visit with id %d not found", photo.VisitID))
		}
		return apperrors.NewInternalError("failed to create visit photo", err)
	}

	return nil
}

// CreateBatch inserts multiple photos in a single transaction and
// returns the number inserted.
func (a *VisitPhotoAdapter) CreateBatch(ctx context.Context, photos []*entities.VisitPhoto) (int, error) {
	if len(photos) == 0 {
		return 0, nil
	}

	now := time.Now()

	err := a.client.WithinTx(ctx, func(tx *sql.Tx) error {
		for _, photo := range photos {
			photo.CreatedAt = now
			photo.UpdatedAt = now

			query, args, err := a.db.Insert("visit_photos").
				Rows(photoInsertRecord(photo)).
				Returning("id").
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build insert query", err)
			}

			if err := tx.QueryRowContext(ctx, query, args...).Scan(&photo.ID); err != nil {
				if isForeignKeyViolation(err) {
					return apperrors.NewNotFoundError(fmt.Sprintf("visit with id %d not found", photo.VisitID))
				}
				return apperrors.NewInternalError("failed to create visit photo", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(photos), nil
}

// GetByID retrieves a photo by ID
func (a *VisitPhotoAdapter) GetByID(ctx context.Context, id int64) (*entities.VisitPhoto, error) {
	query, args, err := a.db.Select(
		"id", "visit_id", "file_path", "description",
		"created_by", "updated_by", "created_at", "updated_at",
	).
		From("visit_photos").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	photo := &entities.VisitPhoto{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&photo.ID,
		&photo.VisitID,
		&photo.FilePath,
		&photo.Description,
		&photo.CreatedBy,
		&photo.UpdatedBy,
		&photo.CreatedAt,
		&photo.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("visit photo with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get visit photo", err)
	}

	return photo, nil
}

// List retrieves photos with filters ordered by creation time descending.
// The location filter joins through the owning visit.
func (a *VisitPhotoAdapter) List(ctx context.Context, filter repositories.VisitPhotoFilter) ([]*entities.VisitPhoto, error) {
	ds := a.db.Select(
		goqu.I("p.id"), goqu.I("p.visit_id"), goqu.I("p.file_path"), goqu.I("p.description"),
		goqu.I("p.created_by"), goqu.I("p.updated_by"),
		goqu.I("p.created_at"), goqu.I("p.updated_at"),
	).
		From(goqu.T("visit_photos").As("p"))

	if filter.VisitID != nil {
		ds = ds.Where(goqu.Ex{"p.visit_id": *filter.VisitID})
	}

	if filter.UserID != nil {
		ds = ds.Where(goqu.Ex{"p.created_by": *filter.UserID})
	}

	if filter.LocationID != nil {
		ds = ds.Join(goqu.T("visits").As("v"), goqu.On(goqu.Ex{"v.id": goqu.I("p.visit_id")})).
			Where(goqu.Ex{"v.location_id": *filter.LocationID})
	}

	ds = ds.Order(goqu.I("p.created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list visit photos", err)
	}
	defer rows.Close()

	photos := []*entities.VisitPhoto{}
	for rows.Next() {
		photo := &entities.VisitPhoto{}
		err := rows.Scan(
			&photo.ID,
			&photo.VisitID,
			&photo.FilePath,
			&photo.Description,
			&photo.CreatedBy,
			&photo.UpdatedBy,
			&photo.CreatedAt,
			&photo.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan visit photo", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating visit photos", err)
	}

	return photos, nil
}

// Update updates a photo's file path and description
func (a *VisitPhotoAdapter) Update(ctx context.Context, photo *entities.VisitPhoto) error {
	photo.UpdatedAt = time.Now()

	query, args, err := a.db.Update("visit_photos").
		Set(goqu.Record{
			"file_path":   photo.FilePath,
			"description": photo.Description,
			"updated_by":  photo.UpdatedBy,
			"updated_at":  photo.UpdatedAt,
		}).
		Where(goqu.Ex{"id": photo.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update visit photo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("visit photo with id %d not found", photo.ID))
	}

	return nil
}

// Delete deletes a photo
func (a *VisitPhotoAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("visit_photos").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete visit photo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("visit photo with id %d not found", id))
	}

	return nil
}
