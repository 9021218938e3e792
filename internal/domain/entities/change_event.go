package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChangeAction describes what happened to an entity
type ChangeAction string

const (
	ChangeActionCreated ChangeAction = "created"
	ChangeActionUpdated ChangeAction = "updated"
	ChangeActionDeleted ChangeAction = "deleted"
)

// ChangeKind names the entity a change event refers to
type ChangeKind string

const (
	ChangeKindLocation   ChangeKind = "location"
	ChangeKindVisit      ChangeKind = "visit"
	ChangeKindVisitPhoto ChangeKind = "visit_photo"
)

// ChangeEvent is published on the event bus after a successful mutation.
// Consumers use it to invalidate caches and refresh stale snapshots.
type ChangeEvent struct {
	ID        string       `json:"id"`
	Kind      ChangeKind   `json:"kind"`
	EntityID  int64        `json:"entity_id"`
	Action    ChangeAction `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewChangeEvent creates a new change event
func NewChangeEvent(kind ChangeKind, entityID int64, action ChangeAction) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntityID:  entityID,
		Action:    action,
		Timestamp: time.Now(),
	}
}
