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

// VisitAdapter implements the VisitRepository interface
type VisitAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVisitAdapter creates a new visit adapter
func NewVisitAdapter(client *postgres.Client) repositories.VisitRepository {
	return &VisitAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func visitInsertRecord(visit *entities.Visit) goqu.Record {
	return goqu.Record{
		"location_id": visit.LocationID,
		"visit_date":  visit.VisitDate,
		"notes":       visit.Notes,
		"rating":      visit.Rating,
		"created_by":  visit.CreatedBy,
		"updated_by":  visit.UpdatedBy,
		"created_at":  visit.CreatedAt,
		"updated_at":  visit.UpdatedAt,
	}
}

// Create creates a new visit
func (a *VisitAdapter) Create(ctx context.Context, visit *entities.Visit) error {
	now := time.Now()
	visit.CreatedAt = now
	visit.UpdatedAt = now

	query, args, err := a.db.Insert("visits").
		Rows(visitInsertRecord(visit)).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&visit.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", visit.LocationID))
		}
		return apperrors.NewInternalError("failed to create visit", err)
	}

	return nil
}

// CreateWithPhotos creates a visit and all accompanying photos in one
// transaction. A failure on any photo insert rolls back the visit too.
func (a *VisitAdapter) CreateWithPhotos(ctx context.Context, visit *entities.Visit, photos []*entities.VisitPhoto) error {
	now := time.Now()
	visit.CreatedAt = now
	visit.UpdatedAt = now

	return a.client.WithinTx(ctx, func(tx *sql.Tx) error {
		query, args, err := a.db.Insert("visits").
			Rows(visitInsertRecord(visit)).
			Returning("id").
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build visit insert query", err)
		}

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&visit.ID); err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", visit.LocationID))
			}
			return apperrors.NewInternalError("failed to create visit", err)
		}

		for _, photo := range photos {
			photo.VisitID = visit.ID
			photo.CreatedAt = now
			photo.UpdatedAt = now

			query, args, err := a.db.Insert("visit_photos").
				Rows(goqu.Record{
					"visit_id":    photo.VisitID,
					"file_path":   photo.FilePath,
					"description": photo.Description,
					"created_by":  photo.CreatedBy,
					"updated_by":  photo.UpdatedBy,
					"created_at":  photo.CreatedAt,
					"updated_at":  photo.UpdatedAt,
				}).
				Returning("id").
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build photo insert query", err)
			}

			if err := tx.QueryRowContext(ctx, query, args...).Scan(&photo.ID); err != nil {
				return apperrors.NewInternalError("failed to create visit photo", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a visit by ID
func (a *VisitAdapter) GetByID(ctx context.Context, id int64) (*entities.Visit, error) {
	query, args, err := a.db.Select(
		"id", "location_id", "visit_date", "notes", "rating",
		"created_by", "updated_by", "created_at", "updated_at",
	).
		From("visits").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	visit := &entities.Visit{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&visit.ID,
		&visit.LocationID,
		&visit.VisitDate,
		&visit.Notes,
		&visit.Rating,
		&visit.CreatedBy,
		&visit.UpdatedBy,
		&visit.CreatedAt,
		&visit.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("visit with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get visit", err)
	}

	return visit, nil
}

// Update applies a partial update to a visit
func (a *VisitAdapter) Update(ctx context.Context, visit *entities.Visit) error {
	visit.UpdatedAt = time.Now()

	query, args, err := a.db.Update("visits").
		Set(goqu.Record{
			"visit_date": visit.VisitDate,
			"notes":      visit.Notes,
			"rating":     visit.Rating,
			"updated_by": visit.UpdatedBy,
			"updated_at": visit.UpdatedAt,
		}).
		Where(goqu.Ex{"id": visit.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update visit", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("visit with id %d not found", visit.ID))
	}

	return nil
}

// Delete deletes a visit and its photos
func (a *VisitAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("visits").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("visit %d cannot be deleted, it may have related records", id))
		}
		return apperrors.NewInternalError("failed to delete visit", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("visit with id %d not found", id))
	}

	return nil
}

// List retrieves visits with filters joined with the location name,
// ordered by visit date descending. The date range is inclusive on both
// ends; the rating filter compares the normalized 0-5 value.
func (a *VisitAdapter) List(ctx context.Context, filter repositories.VisitFilter) ([]*entities.VisitWithLocation, error) {
	ds := a.db.Select(
		goqu.I("v.id"), goqu.I("v.location_id"), goqu.I("v.visit_date"),
		goqu.I("v.notes"), goqu.I("v.rating"),
		goqu.I("v.created_by"), goqu.I("v.updated_by"),
		goqu.I("v.created_at"), goqu.I("v.updated_at"),
		goqu.COALESCE(goqu.I("l.name"), "").As("location_name"),
	).
		From(goqu.T("visits").As("v")).
		LeftJoin(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"l.id": goqu.I("v.location_id")}))

	if filter.LocationID != nil {
		ds = ds.Where(goqu.Ex{"v.location_id": *filter.LocationID})
	}

	if filter.UserID != nil {
		ds = ds.Where(goqu.Ex{"v.created_by": *filter.UserID})
	}

	if filter.From != nil {
		ds = ds.Where(goqu.I("v.visit_date").Gte(*filter.From))
	}

	if filter.To != nil {
		ds = ds.Where(goqu.I("v.visit_date").Lte(*filter.To))
	}

	if filter.MinRating != nil {
		ds = ds.Where(goqu.L("(CASE WHEN v.rating > 5 THEN (v.rating + 1) / 2 ELSE v.rating END) >= ?", *filter.MinRating))
	}

	ds = ds.Order(goqu.I("v.visit_date").Desc())

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
		return nil, apperrors.NewInternalError("failed to list visits", err)
	}
	defer rows.Close()

	visits := []*entities.VisitWithLocation{}
	for rows.Next() {
		visit := &entities.VisitWithLocation{}
		err := rows.Scan(
			&visit.ID,
			&visit.LocationID,
			&visit.VisitDate,
			&visit.Notes,
			&visit.Rating,
			&visit.CreatedBy,
			&visit.UpdatedBy,
			&visit.CreatedAt,
			&visit.UpdatedAt,
			&visit.LocationName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan visit", err)
		}
		visits = append(visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating visits", err)
	}

	return visits, nil
}
