package analytics

import (
	"context"

	"github.com/google/uuid"
)

// ReportRepository defines the interface for report persistence
type ReportRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Report, error)
	// FindAllForTenant returns reports newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Report, error)
	FindByType(ctx context.Context, tenantID uuid.UUID, reportType ReportType) ([]Report, error)
	Save(ctx context.Context, report *Report) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
