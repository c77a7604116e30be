package models

import (
	"time"

	"github.com/crm/backend/internal/domain/analytics"
)

// ReportModel is the persistence model for saved reports
type ReportModel struct {
	TenantModel
	Name        string               `gorm:"type:varchar(200);not null"`
	Type        analytics.ReportType `gorm:"type:varchar(20);not null;index"`
	Description string               `gorm:"type:text"`
	Data        string               `gorm:"type:text"`
	CreatedBy   string               `gorm:"type:varchar(100)"`
	ExportKey   string               `gorm:"type:varchar(500)"`
	ExportedAt  *time.Time
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the model to a domain Report
func (m *ReportModel) ToDomain() *analytics.Report {
	return &analytics.Report{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		Name:        m.Name,
		Type:        m.Type,
		Description: m.Description,
		Data:        m.Data,
		CreatedBy:   m.CreatedBy,
		ExportKey:   m.ExportKey,
		ExportedAt:  m.ExportedAt,
	}
}

// ReportModelFromDomain creates a persistence model from a domain Report
func ReportModelFromDomain(r *analytics.Report) *ReportModel {
	m := &ReportModel{
		Name:        r.Name,
		Type:        r.Type,
		Description: r.Description,
		Data:        r.Data,
		CreatedBy:   r.CreatedBy,
		ExportKey:   r.ExportKey,
		ExportedAt:  r.ExportedAt,
	}
	m.FromDomainTenantEntity(r.BaseEntity, r.TenantID)
	return m
}
