package marketing

import (
	"time"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description"`
	Type           string           `json:"type" binding:"omitempty,oneof=EMAIL SMS SOCIAL_MEDIA WEBINAR"`
	StartDate      *time.Time       `json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	Budget         *decimal.Decimal `json:"budget"`
	Goal           string           `json:"goal"`
	TargetAudience string           `json:"target_audience"`
}

// UpdateCampaignRequest represents a request to update a campaign
type UpdateCampaignRequest CreateCampaignRequest

// UpdateCampaignStatusRequest changes the campaign status
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SCHEDULED ACTIVE PAUSED COMPLETED CANCELLED"`
}

// RecordMetricsRequest adds delivery counters to a campaign
type RecordMetricsRequest struct {
	Sent    int64 `json:"sent" binding:"min=0"`
	Opened  int64 `json:"opened" binding:"min=0"`
	Clicked int64 `json:"clicked" binding:"min=0"`
}

// CampaignListFilter represents filter options for the campaign list
type CampaignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT SCHEDULED ACTIVE PAUSED COMPLETED CANCELLED"`
	Type     string `form:"type" binding:"omitempty,oneof=EMAIL SMS SOCIAL_MEDIA WEBINAR"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Type           string          `json:"type,omitempty"`
	Status         string          `json:"status"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Budget         decimal.Decimal `json:"budget"`
	Goal           string          `json:"goal,omitempty"`
	TargetAudience string          `json:"target_audience,omitempty"`
	SentCount      int64           `json:"sent_count"`
	OpenCount      int64           `json:"open_count"`
	ClickCount     int64           `json:"click_count"`
	OpenRate       float64         `json:"open_rate"`
	ClickRate      float64         `json:"click_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToCampaignResponse converts a domain campaign to a response
func ToCampaignResponse(c *marketing.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Type:           string(c.Type),
		Status:         string(c.Status),
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Budget:         c.Budget,
		Goal:           c.Goal,
		TargetAudience: c.TargetAudience,
		SentCount:      c.SentCount,
		OpenCount:      c.OpenCount,
		ClickCount:     c.ClickCount,
		OpenRate:       c.OpenRate(),
		ClickRate:      c.ClickRate(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCampaignResponses converts a slice of campaigns
func ToCampaignResponses(campaigns []marketing.Campaign) []CampaignResponse {
	out := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		out[i] = ToCampaignResponse(&campaigns[i])
	}
	return out
}

// TemplateRequest creates or updates an email template
type TemplateRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Subject  string `json:"subject" binding:"max=500"`
	Body     string `json:"body"`
	Category string `json:"category" binding:"max=100"`
	Active   *bool  `json:"active"`
}

// RenderTemplateRequest supplies placeholder values
type RenderTemplateRequest struct {
	Values map[string]string `json:"values"`
}

// TemplateResponse represents an email template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Category  string    `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTemplateResponse(t *marketing.EmailTemplate) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		Category:  t.Category,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTemplateResponses converts a slice of templates
func ToTemplateResponses(templates []marketing.EmailTemplate) []TemplateResponse {
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = toTemplateResponse(&templates[i])
	}
	return out
}

// SegmentRequest creates or updates a segment
type SegmentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Criteria    string `json:"criteria" binding:"max=2000"`
}

// SegmentResponse represents a segment in API responses
type SegmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Criteria    string    `json:"criteria"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSegmentResponse(s *marketing.Segment) SegmentResponse {
	return SegmentResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Criteria:    s.Criteria,
		MemberCount: s.MemberCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSegmentResponses converts a slice of segments
func ToSegmentResponses(segments []marketing.Segment) []SegmentResponse {
	out := make([]SegmentResponse, len(segments))
	for i := range segments {
		out[i] = toSegmentResponse(&segments[i])
	}
	return out
}
