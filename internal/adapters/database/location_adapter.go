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

// LocationAdapter implements the LocationRepository interface
type LocationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLocationAdapter creates a new location adapter
func NewLocationAdapter(client *postgres.Client) repositories.LocationRepository {
	return &LocationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var locationColumns = []interface{}{
	"id", "name", "latitude", "longitude", "address", "description",
	"created_by", "updated_by", "created_at", "updated_at",
}

func scanLocation(row interface{ Scan(...interface{}) error }, loc *entities.Location) error {
	return row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.Address,
		&loc.Description,
		&loc.CreatedBy,
		&loc.UpdatedBy,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
}

// Create creates a new location
func (a *LocationAdapter) Create(ctx context.Context, location *entities.Location) error {
	now := time.Now()
	location.CreatedAt = now
	location.UpdatedAt = now

	query, args, err := a.db.Insert("locations").
		Rows(goqu.Record{
			"name":        location.Name,
			"latitude":    location.Latitude,
			"longitude":   location.Longitude,
			"address":     location.Address,
			"description": location.Description,
			"created_by":  location.CreatedBy,
			"updated_by":  location.UpdatedBy,
			"created_at":  location.CreatedAt,
			"updated_at":  location.UpdatedAt,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&location.ID); err != nil {
		return apperrors.NewInternalError("failed to create location", err)
	}

	return nil
}

// GetByID retrieves a location by ID
func (a *LocationAdapter) GetByID(ctx context.Context, id int64) (*entities.Location, error) {
	query, args, err := a.db.Select(locationColumns...).
		From("locations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	location := &entities.Location{}
	err = scanLocation(a.client.DB().QueryRowContext(ctx, query, args...), location)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get location", err)
	}

	return location, nil
}

// GetDetail retrieves a location together with its full visit history
func (a *LocationAdapter) GetDetail(ctx context.Context, id int64) (*entities.LocationDetail, error) {
	location, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query, args, err := a.db.Select(
		"id", "location_id", "visit_date", "notes", "rating",
		"created_by", "updated_by", "created_at", "updated_at",
	).
		From("visits").
		Where(goqu.Ex{"location_id": id}).
		Order(goqu.I("visit_date").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build visit history query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load visit history", err)
	}
	defer rows.Close()

	detail := &entities.LocationDetail{Location: *location, Visits: []*entities.Visit{}}
	for rows.Next() {
		visit := &entities.Visit{}
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
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan visit", err)
		}
		detail.Visits = append(detail.Visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating visits", err)
	}

	return detail, nil
}

// Update updates a location
func (a *LocationAdapter) Update(ctx context.Context, location *entities.Location) error {
	location.UpdatedAt = time.Now()

	query, args, err := a.db.Update("locations").
		Set(goqu.Record{
			"name":        location.Name,
			"latitude":    location.Latitude,
			"longitude":   location.Longitude,
			"address":     location.Address,
			"description": location.Description,
			"updated_by":  location.UpdatedBy,
			"updated_at":  location.UpdatedAt,
		}).
		Where(goqu.Ex{"id": location.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update location", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", location.ID))
	}

	return nil
}

// Delete deletes a location. The visits foreign key is RESTRICT, so the
// delete fails while visits still reference the location.
func (a *LocationAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("locations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("location %d cannot be deleted, it may have related records", id))
		}
		return apperrors.NewInternalError("failed to delete location", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("location with id %d not found", id))
	}

	return nil
}

// List retrieves location summaries ordered by creation time descending
func (a *LocationAdapter) List(ctx context.Context, filter repositories.LocationFilter) ([]*entities.LocationSummary, error) {
	ds := a.db.Select(
		goqu.I("l.id"), goqu.I("l.name"), goqu.I("l.latitude"), goqu.I("l.longitude"),
		goqu.I("l.address"), goqu.I("l.description"),
		goqu.I("l.created_by"), goqu.I("l.updated_by"),
		goqu.I("l.created_at"), goqu.I("l.updated_at"),
		goqu.COALESCE(goqu.I("u.username"), "").As("creator_username"),
		goqu.COUNT(goqu.I("v.id")).As("visit_count"),
	).
		From(goqu.T("locations").As("l")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("l.created_by")})).
		LeftJoin(goqu.T("visits").As("v"), goqu.On(goqu.Ex{"v.location_id": goqu.I("l.id")})).
		GroupBy(goqu.I("l.id"), goqu.I("u.username")).
		Order(goqu.I("l.created_at").Desc())

	if filter.CreatedBy != nil {
		ds = ds.Where(goqu.Ex{"l.created_by": *filter.CreatedBy})
	}

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
		return nil, apperrors.NewInternalError("failed to list locations", err)
	}
	defer rows.Close()

	summaries := []*entities.LocationSummary{}
	for rows.Next() {
		summary := &entities.LocationSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Latitude,
			&summary.Longitude,
			&summary.Address,
			&summary.Description,
			&summary.CreatedBy,
			&summary.UpdatedBy,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.CreatorUsername,
			&summary.VisitCount,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan location", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating locations", err)
	}

	return summaries, nil
}
