package entities

import "time"

// Location represents a physical place a user can visit
type Location struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Address     string    `json:"address" db:"address"`
	Description string    `json:"description" db:"description"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	UpdatedBy   int64     `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// LocationSummary is the list projection returned by locations.getAll:
// the location plus its creator's username and visit count.
type LocationSummary struct {
	Location
	CreatorUsername string `json:"creator_username"`
	VisitCount      int    `json:"visit_count"`
}

// LocationDetail is the single-location projection with full visit history.
type LocationDetail struct {
	Location
	Visits []*Visit `json:"visits"`
}
