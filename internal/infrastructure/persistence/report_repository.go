package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReportRepository implements analytics.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByIDForTenant finds a report by ID within a tenant
func (r *GormReportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*analytics.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns reports newest first
func (r *GormReportRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]analytics.Report, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC"))
}

// FindByType returns reports of a type newest first
func (r *GormReportRepository) FindByType(ctx context.Context, tenantID uuid.UUID, reportType analytics.ReportType) ([]analytics.Report, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND type = ?", tenantID, reportType).
		Order("created_at DESC"))
}

// Save creates or updates a report
func (r *GormReportRepository) Save(ctx context.Context, report *analytics.Report) error {
	return r.db.WithContext(ctx).Save(models.ReportModelFromDomain(report)).Error
}

// DeleteForTenant deletes a report within a tenant
func (r *GormReportRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.ReportModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormReportRepository) find(query *gorm.DB) ([]analytics.Report, error) {
	var rows []models.ReportModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	reports := make([]analytics.Report, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToDomain()
	}
	return reports, nil
}

var _ analytics.ReportRepository = (*GormReportRepository)(nil)
