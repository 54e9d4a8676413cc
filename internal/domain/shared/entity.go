package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps of a persisted
// aggregate. Timestamps are always kept in UTC.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntityAt stamps a fresh identity created at now
func NewBaseEntityAt(now time.Time) BaseEntity {
	now = now.UTC().Round(0)
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification at now. UpdatedAt never moves before
// CreatedAt.
func (e *BaseEntity) Touch(now time.Time) {
	now = now.UTC().Round(0)
	if now.Before(e.CreatedAt) {
		now = e.CreatedAt
	}
	e.UpdatedAt = now
}

// Reidentify replaces the id, keeping the timestamps
func (e *BaseEntity) Reidentify() uuid.UUID {
	e.ID = uuid.New()
	return e.ID
}
