package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

const dateLayout = "2006-01-02"

func parseDate(value, field string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError(field + " must be formatted as YYYY-MM-DD")
}

type idInput struct {
	ID int64 `json:"id"`
}

// RegisterAll wires every procedure onto the registry
func RegisterAll(
	reg *Registry,
	locations *services.LocationService,
	visits *services.VisitService,
	photos *services.VisitPhotoService,
) {
	registerLocationProcedures(reg, locations)
	registerVisitProcedures(reg, visits)
	registerVisitPhotoProcedures(reg, photos)
}

func registerLocationProcedures(reg *Registry, svc *services.LocationService) {
	reg.Register("locations.getAll", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return svc.List(ctx, repositories.LocationFilter{})
	})

	reg.Register("locations.getById", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		detail, err := svc.GetDetail(ctx, in.ID)
		if err != nil {
			// An absent location is reported as a null result, not an error.
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Type == apperrors.ErrorTypeNotFound {
				return nil, nil
			}
			return nil, err
		}
		return detail, nil
	})

	reg.Register("locations.create", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var location entities.Location
		if err := decode(input, &location); err != nil {
			return nil, err
		}
		location.UpdatedBy = location.CreatedBy
		if err := svc.Create(ctx, &location); err != nil {
			return nil, err
		}
		return &location, nil
	})

	reg.Register("locations.update", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var location entities.Location
		if err := decode(input, &location); err != nil {
			return nil, err
		}
		if err := svc.Update(ctx, &location); err != nil {
			return nil, err
		}
		return &location, nil
	})

	reg.Register("locations.delete", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		location, err := svc.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if err := svc.Delete(ctx, in.ID); err != nil {
			return nil, err
		}
		return location, nil
	})
}

type visitCreateInput struct {
	LocationID int64  `json:"location_id"`
	VisitDate  string `json:"visit_date"`
	Notes      string `json:"notes"`
	Rating     int    `json:"rating"`
	CreatedBy  int64  `json:"created_by"`
}

type visitUpdateInput struct {
	ID        int64   `json:"id"`
	VisitDate *string `json:"visit_date"`
	Notes     *string `json:"notes"`
	Rating    *int    `json:"rating"`
	UpdatedBy int64   `json:"updated_by"`
}

func registerVisitProcedures(reg *Registry, svc *services.VisitService) {
	reg.Register("visits.getAll", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return svc.List(ctx, repositories.VisitFilter{})
	})

	reg.Register("visits.getById", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.GetByID(ctx, in.ID)
	})

	reg.Register("visits.getByLocationId", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			LocationID int64 `json:"location_id"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.List(ctx, repositories.VisitFilter{LocationID: &in.LocationID})
	})

	reg.Register("visits.getByUserId", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			UserID int64 `json:"user_id"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.List(ctx, repositories.VisitFilter{UserID: &in.UserID})
	})

	reg.Register("visits.getByDateRange", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		from, err := parseDate(in.From, "from")
		if err != nil {
			return nil, err
		}
		to, err := parseDate(in.To, "to")
		if err != nil {
			return nil, err
		}
		return svc.ListByDateRange(ctx, from, to)
	})

	reg.Register("visits.getByRating", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			MinRating int `json:"min_rating"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.ListByMinRating(ctx, in.MinRating)
	})

	reg.Register("visits.create", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in visitCreateInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		visit := &entities.Visit{
			LocationID: in.LocationID,
			Notes:      in.Notes,
			Rating:     in.Rating,
			CreatedBy:  in.CreatedBy,
			UpdatedBy:  in.CreatedBy,
		}
		if in.VisitDate != "" {
			date, err := parseDate(in.VisitDate, "visit_date")
			if err != nil {
				return nil, err
			}
			visit.VisitDate = date
		}
		if err := svc.Create(ctx, visit); err != nil {
			return nil, err
		}
		return visit, nil
	})

	reg.Register("visits.update", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in visitUpdateInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		visit, err := svc.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if in.VisitDate != nil {
			date, err := parseDate(*in.VisitDate, "visit_date")
			if err != nil {
				return nil, err
			}
			visit.VisitDate = date
		}
		if in.Notes != nil {
			visit.Notes = *in.Notes
		}
		if in.Rating != nil {
			visit.Rating = *in.Rating
		}
		visit.UpdatedBy = in.UpdatedBy
		if err := svc.Update(ctx, visit); err != nil {
			return nil, err
		}
		return visit, nil
	})

	reg.Register("visits.delete", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		visit, err := svc.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if err := svc.Delete(ctx, in.ID); err != nil {
			return nil, err
		}
		return visit, nil
	})
}

type photoInput struct {
	ID          int64  `json:"id"`
	VisitID     int64  `json:"visit_id"`
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
	CreatedBy   int64  `json:"created_by"`
	UpdatedBy   int64  `json:"updated_by"`
}

func registerVisitPhotoProcedures(reg *Registry, svc *services.VisitPhotoService) {
	reg.Register("visitPhotos.getAll", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return svc.List(ctx, repositories.VisitPhotoFilter{})
	})

	reg.Register("visitPhotos.getByVisitId", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			VisitID int64 `json:"visit_id"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.List(ctx, repositories.VisitPhotoFilter{VisitID: &in.VisitID})
	})

	reg.Register("visitPhotos.getByUserId", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			UserID int64 `json:"user_id"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.List(ctx, repositories.VisitPhotoFilter{UserID: &in.UserID})
	})

	reg.Register("visitPhotos.getByLocationId", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			LocationID int64 `json:"location_id"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return svc.List(ctx, repositories.VisitPhotoFilter{LocationID: &in.LocationID})
	})

	reg.Register("visitPhotos.create", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in photoInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		photo := &entities.VisitPhoto{
			VisitID:     in.VisitID,
			FilePath:    in.FilePath,
			Description: in.Description,
			CreatedBy:   in.CreatedBy,
			UpdatedBy:   in.CreatedBy,
		}
		if err := svc.Create(ctx, photo); err != nil {
			return nil, err
		}
		return photo, nil
	})

	reg.Register("visitPhotos.createMultiple", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			VisitID int64 `json:"visit_id"`
			Photos  []struct {
				FilePath    string `json:"file_path"`
				Description string `json:"description"`
			} `json:"photos"`
			CreatedBy int64 `json:"created_by"`
		}
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		photos := make([]*entities.VisitPhoto, 0, len(in.Photos))
		for _, p := range in.Photos {
			photos = append(photos, &entities.VisitPhoto{
				VisitID:     in.VisitID,
				FilePath:    p.FilePath,
				Description: p.Description,
				CreatedBy:   in.CreatedBy,
				UpdatedBy:   in.CreatedBy,
			})
		}
		count, err := svc.CreateMultiple(ctx, photos)
		if err != nil {
			return nil, err
		}
		return map[string]int{"count": count}, nil
	})

	reg.Register("visitPhotos.update", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in photoInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		photo, err := svc.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if in.FilePath != "" {
			photo.FilePath = in.FilePath
		}
		if in.Description != "" {
			photo.Description = in.Description
		}
		if in.UpdatedBy != 0 {
			photo.UpdatedBy = in.UpdatedBy
		}
		if err := svc.Update(ctx, photo); err != nil {
			return nil, err
		}
		return photo, nil
	})

	reg.Register("visitPhotos.delete", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		photo, err := svc.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if err := svc.Delete(ctx, in.ID); err != nil {
			return nil, err
		}
		return photo, nil
	})
}
