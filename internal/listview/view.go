// Package listview derives the filtered, sorted, paginated slice of
// records shown in history lists. The derivation is a pure function of
// the full record collection and the current filter/page state, so every
// state change simply recomputes the view.
package listview

import (
	"sort"
	"strings"
	"time"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// SortOrder determines how records are ordered by identifier.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Item is the record shape the engine operates on. SearchText holds the
// concatenated text fields matched against the search term.
type Item struct {
	ID         int64
	SearchText string
	Date       time.Time
	Rating     int
	HasRating  bool
}

// Filters holds the active constraints. Nil pointer fields mean
// "no constraint", never an error.
type Filters struct {
	SearchTerm string
	DateFrom   *time.Time
	DateTo     *time.Time
	MinRating  *int
}

// Pagination is the pager metadata for a derived view.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// View is a single page of records plus its pager metadata.
type View struct {
	PageItems  []Item     `json:"page_items"`
	Pagination Pagination `json:"pagination"`
}

func (f Filters) matches(item Item) bool {
	if f.SearchTerm != "" &&
		!strings.Contains(strings.ToLower(item.SearchText), strings.ToLower(f.SearchTerm)) {
		return false
	}
	if f.DateFrom != nil && item.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && item.Date.After(*f.DateTo) {
		return false
	}
	if f.MinRating != nil {
		rating := 0
		if item.HasRating {
			rating = entities.NormalizeRating(item.Rating)
		}
		if rating < *f.MinRating {
			return false
		}
	}
	return true
}

// DeriveView filters, sorts and paginates records. Page is 1-indexed and
// taken as given: an out-of-range page yields empty PageItems rather than
// being clamped.
func DeriveView(records []Item, filters Filters, page, perPage int, order SortOrder) View {
	filtered := make([]Item, 0, len(records))
	for _, item := range records {
		if filters.matches(item) {
			filtered = append(filtered, item)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if order == SortDescending {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].ID < filtered[j].ID
	})

	totalItems := len(filtered)
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalItems + perPage - 1) / perPage
	}

	view := View{
		PageItems: []Item{},
		Pagination: Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}

	if perPage <= 0 || page < 1 {
		return view
	}

	start := (page - 1) * perPage
	if start >= totalItems {
		return view
	}
	end := start + perPage
	if end > totalItems {
		end = totalItems
	}
	view.PageItems = filtered[start:end]
	return view
}

// FromVisit adapts a visit row into an engine item. Rating zero means
// the visit was left unrated.
func FromVisit(v *entities.VisitWithLocation) Item {
	return Item{
		ID:         v.ID,
		SearchText: v.LocationName + " " + v.Notes,
		Date:       v.VisitDate,
		Rating:     v.Rating,
		HasRating:  v.Rating != entities.MinRating,
	}
}

// FromVisitPhoto adapts a photo row into an engine item. Photos carry
// no rating so a minimum-rating filter excludes them.
func FromVisitPhoto(p *entities.VisitPhoto) Item {
	return Item{
		ID:         p.ID,
		SearchText: p.FilePath + " " + p.Description,
		Date:       p.CreatedAt,
	}
}
