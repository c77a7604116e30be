package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything whose identity survives changes to its attributes
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries the identity and audit timestamps of every CRM record.
// Child records such as notes, ticket responses and workflow logs embed it
// directly; aggregates get it through BaseAggregateRoot.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Stamp records a modification
func (e *BaseEntity) Stamp() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity assigns a fresh ID, created and updated now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
