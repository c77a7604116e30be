package sales

import (
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDealRequest represents a request to open a deal
type CreateDealRequest struct {
	Title             string           `json:"title" binding:"required,min=1,max=200"`
	Description       string           `json:"description"`
	Value             *decimal.Decimal `json:"value"`
	Stage             string           `json:"stage" binding:"omitempty,oneof=NEW QUALIFIED PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
	CustomerID        uuid.UUID        `json:"customer_id" binding:"required"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	Priority          string           `json:"priority" binding:"omitempty,crm_priority"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Type              string           `json:"type"`
	LeadSource        string           `json:"lead_source" binding:"max=100"`
	NextStep          string           `json:"next_step" binding:"max=500"`
	Probability       int              `json:"probability" binding:"min=0,max=100"`
	CampaignSource    string           `json:"campaign_source" binding:"max=200"`
}

// UpdateDealRequest represents a request to update a deal
type UpdateDealRequest CreateDealRequest

// UpdateDealStageRequest moves a deal in the pipeline
type UpdateDealStageRequest struct {
	Stage string `json:"stage" binding:"required,oneof=NEW QUALIFIED PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Value             decimal.Decimal `json:"value"`
	Stage             string          `json:"stage"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	AssignedTo        *uuid.UUID      `json:"assigned_to,omitempty"`
	Priority          string          `json:"priority"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	Type              string          `json:"type,omitempty"`
	LeadSource        string          `json:"lead_source,omitempty"`
	NextStep          string          `json:"next_step,omitempty"`
	Probability       int             `json:"probability"`
	CampaignSource    string          `json:"campaign_source,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// DealListFilter represents filter options for the deal list
type DealListFilter struct {
	Search     string `form:"search"`
	Stage      string `form:"stage" binding:"omitempty,oneof=NEW QUALIFIED PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StageSummaryResponse is one row of the pipeline summary
type StageSummaryResponse struct {
	Stage      string          `json:"stage"`
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ToDealResponse converts a domain deal to a response
func ToDealResponse(d *sales.Deal) DealResponse {
	return DealResponse{
		ID:                d.ID,
		TenantID:          d.TenantID,
		Title:             d.Title,
		Description:       d.Description,
		Value:             d.Value,
		Stage:             string(d.Stage),
		CustomerID:        d.CustomerID,
		AssignedTo:        d.AssignedTo,
		Priority:          string(d.Priority),
		ExpectedCloseDate: d.ExpectedCloseDate,
		Type:              string(d.Type),
		LeadSource:        d.LeadSource,
		NextStep:          d.NextStep,
		Probability:       d.Probability,
		CampaignSource:    d.CampaignSource,
		ClosedAt:          d.ClosedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}
}

// ToDealResponses converts a slice of deals
func ToDealResponses(deals []sales.Deal) []DealResponse {
	out := make([]DealResponse, len(deals))
	for i := range deals {
		out[i] = ToDealResponse(&deals[i])
	}
	return out
}

// CreateFollowupRequest schedules a follow-up on a deal
type CreateFollowupRequest struct {
	DealID      uuid.UUID  `json:"deal_id" binding:"required"`
	Type        string     `json:"type" binding:"omitempty,oneof=CALL EMAIL MEETING DEMO OTHER"`
	Notes       string     `json:"notes"`
	ScheduledAt time.Time  `json:"scheduled_at" binding:"required"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

// FollowupResponse represents a follow-up in API responses
type FollowupResponse struct {
	ID             uuid.UUID  `json:"id"`
	DealID         uuid.UUID  `json:"deal_id"`
	Type           string     `json:"type"`
	Notes          string     `json:"notes,omitempty"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toFollowupResponse(f *sales.Followup) FollowupResponse {
	return FollowupResponse{
		ID:             f.ID,
		DealID:         f.DealID,
		Type:           string(f.Type),
		Notes:          f.Notes,
		ScheduledAt:    f.ScheduledAt,
		Completed:      f.Completed,
		CompletedAt:    f.CompletedAt,
		AssignedTo:     f.AssignedTo,
		ReminderSentAt: f.ReminderSentAt,
		CreatedAt:      f.CreatedAt,
	}
}

// ToFollowupResponses converts a slice of follow-ups
func ToFollowupResponses(followups []sales.Followup) []FollowupResponse {
	out := make([]FollowupResponse, len(followups))
	for i := range followups {
		out[i] = toFollowupResponse(&followups[i])
	}
	return out
}

// CreateOpportunityRequest represents a request to create an opportunity
type CreateOpportunityRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Amount      *decimal.Decimal `json:"amount"`
	Probability int              `json:"probability" binding:"min=0,max=100"`
	Source      string           `json:"source" binding:"max=100"`
	CustomerID  *uuid.UUID       `json:"customer_id"`
	AssignedTo  *uuid.UUID       `json:"assigned_to"`
	Status      string           `json:"status" binding:"omitempty,oneof=OPEN WON LOST"`
}

// UpdateOpportunityRequest represents a request to update an opportunity
type UpdateOpportunityRequest CreateOpportunityRequest

// UpdateOpportunityStatusRequest changes only the opportunity status
type UpdateOpportunityStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN WON LOST"`
}

// OpportunityResponse represents an opportunity in API responses
type OpportunityResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Probability int             `json:"probability"`
	Source      string          `json:"source,omitempty"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	AssignedTo  *uuid.UUID      `json:"assigned_to,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OpportunityListFilter represents filter options for the opportunity list
type OpportunityListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=OPEN WON LOST"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toOpportunityResponse(o *sales.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:          o.ID,
		Name:        o.Name,
		Amount:      o.Amount,
		Probability: o.Probability,
		Source:      o.Source,
		CustomerID:  o.CustomerID,
		AssignedTo:  o.AssignedTo,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOpportunityResponses converts a slice of opportunities
func ToOpportunityResponses(opportunities []sales.Opportunity) []OpportunityResponse {
	out := make([]OpportunityResponse, len(opportunities))
	for i := range opportunities {
		out[i] = toOpportunityResponse(&opportunities[i])
	}
	return out
}
