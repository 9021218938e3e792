package entities

import "time"

// Rating bounds for a visit. Zero means unrated.
const (
	MinRating = 0
	MaxRating = 5
)

// Visit is a dated record of a user visiting a Location
type Visit struct {
	ID         int64     `json:"id" db:"id"`
	LocationID int64     `json:"location_id" db:"location_id"`
	VisitDate  time.Time `json:"visit_date" db:"visit_date"`
	Notes      string    `json:"notes" db:"notes"`
	Rating     int       `json:"rating" db:"rating"`
	CreatedBy  int64     `json:"created_by" db:"created_by"`
	UpdatedBy  int64     `json:"updated_by" db:"updated_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// VisitWithLocation carries the location name alongside the visit for list views.
type VisitWithLocation struct {
	Visit
	LocationName string `json:"location_name"`
}

// NormalizeRating maps a rating onto the 0-5 scale. Ratings already in
// range pass through; a legacy 10-point value is folded via ceil(r/2).
func NormalizeRating(rating int) int {
	if rating <= MaxRating {
		return rating
	}
	return (rating + 1) / 2
}
