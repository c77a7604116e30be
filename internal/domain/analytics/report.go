package analytics

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportType selects which slice of CRM data a report covers
type ReportType string

const (
	ReportTypeSales     ReportType = "SALES"
	ReportTypeLeads     ReportType = "LEADS"
	ReportTypeTickets   ReportType = "TICKETS"
	ReportTypeCampaigns ReportType = "CAMPAIGNS"
)

// ParseReportType normalizes and validates a report type
func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ReportTypeSales, ReportTypeLeads, ReportTypeTickets, ReportTypeCampaigns:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_TYPE", "Invalid report type: "+s)
}

// Report is a saved analytics report. Data holds a JSON document.
type Report struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	Name        string
	Type        ReportType
	Description string
	Data        string
	CreatedBy   string
	ExportKey   string
	ExportedAt  *time.Time
}

// NewReport creates a report with empty data
func NewReport(tenantID uuid.UUID, name string, reportType ReportType, description, createdBy string) (*Report, error) {
	r := &Report{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		CreatedBy:  createdBy,
	}
	if err := r.Update(name, reportType, description); err != nil {
		return nil, err
	}
	r.UpdatedAt = r.CreatedAt
	return r, nil
}

// Update replaces the descriptive fields
func (r *Report) Update(name string, reportType ReportType, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Report name cannot be empty")
	}
	t, err := ParseReportType(string(reportType))
	if err != nil {
		return err
	}
	r.Name = name
	r.Type = t
	r.Description = description
	r.Stamp()
	return nil
}

// SetData stores v as the report's JSON data
func (r *Report) SetData(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return shared.NewDomainError("INVALID_DATA", "Report data is not serializable")
	}
	r.Data = string(b)
	r.Stamp()
	return nil
}

// DataMap decodes the report data; empty data yields an empty map
func (r *Report) DataMap() map[string]any {
	out := make(map[string]any)
	if r.Data == "" {
		return out
	}
	_ = json.Unmarshal([]byte(r.Data), &out)
	return out
}

// MarkExported records the object key of the latest export
func (r *Report) MarkExported(key string, at time.Time) {
	r.ExportKey = key
	r.ExportedAt = &at
	r.UpdatedAt = at
}
