package workflow

import (
	"context"

	"github.com/google/uuid"
)

// RuleRepository defines the interface for rule persistence
type RuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Rule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Rule, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Rule, error)

	// FindMatching returns active rules for the entity type and trigger,
	// highest priority first and then oldest first
	FindMatching(ctx context.Context, tenantID uuid.UUID, entityType EntityType, trigger TriggerEvent) ([]Rule, error)

	Save(ctx context.Context, rule *Rule) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ActionRepository stores action definitions
type ActionRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Action, error)
	Save(ctx context.Context, action *Action) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LogRepository stores execution logs
type LogRepository interface {
	Save(ctx context.Context, log *Log) error
	// FindRecent returns the newest logs, at most limit
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]Log, error)
	FindByRule(ctx context.Context, tenantID, ruleID uuid.UUID) ([]Log, error)
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType EntityType, entityID string) ([]Log, error)
}
