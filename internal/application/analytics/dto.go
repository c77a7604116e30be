package analytics

import (
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/google/uuid"
)

// CreateReportRequest creates a saved report
type CreateReportRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Type        string `json:"type" binding:"required,oneof=SALES LEADS TICKETS CAMPAIGNS"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateReportRequest replaces the descriptive fields of a report
type UpdateReportRequest CreateReportRequest

// ReportResponse represents a saved report
type ReportResponse struct {
	ID          uuid.UUID      `json:"id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Data        map[string]any `json:"data"`
	CreatedBy   string         `json:"created_by,omitempty"`
	ExportKey   string         `json:"export_key,omitempty"`
	ExportedAt  *time.Time     `json:"exported_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ExportResponse points at an exported PDF
type ExportResponse struct {
	ReportID  uuid.UUID `json:"report_id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Pages     int       `json:"pages"`
	Bytes     int       `json:"bytes"`
}

// ToReportResponse converts a domain report to a response
func ToReportResponse(r *analytics.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Name:        r.Name,
		Type:        string(r.Type),
		Description: r.Description,
		Data:        r.DataMap(),
		CreatedBy:   r.CreatedBy,
		ExportKey:   r.ExportKey,
		ExportedAt:  r.ExportedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToReportResponses converts a slice of reports
func ToReportResponses(reports []analytics.Report) []ReportResponse {
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReportResponse(&reports[i])
	}
	return out
}
