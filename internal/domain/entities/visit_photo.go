package entities

import "time"

// VisitPhoto is a file attachment owned by exactly one Visit
type VisitPhoto struct {
	ID          int64     `json:"id" db:"id"`
	VisitID     int64     `json:"visit_id" db:"visit_id"`
	FilePath    string    `json:"file_path" db:"file_path"`
	Description string    `json:"description" db:"description"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	UpdatedBy   int64     `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
