package customer

import (
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressDTO is the postal address carried by customer and lead payloads
type AddressDTO struct {
	Street  string `json:"street" binding:"max=200"`
	City    string `json:"city" binding:"max=200"`
	State   string `json:"state" binding:"max=200"`
	Country string `json:"country" binding:"max=200"`
}

func (a AddressDTO) toDomain() (valueobject.Address, error) {
	return valueobject.NewAddress(a.Street, a.City, a.State, a.Country)
}

func toAddressDTO(a valueobject.Address) AddressDTO {
	return AddressDTO{Street: a.Street, City: a.City, State: a.State, Country: a.Country}
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	FirstName string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string     `json:"last_name" binding:"required,min=1,max=100"`
	Email     string     `json:"email" binding:"required,email,max=200"`
	Phone     string     `json:"phone" binding:"max=50"`
	Company   string     `json:"company" binding:"max=200"`
	JobTitle  string     `json:"job_title" binding:"max=200"`
	Address   AddressDTO `json:"address"`
	Status    string     `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE PROSPECT"`
	Source    string     `json:"source" binding:"max=100"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest CreateCustomerRequest

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	JobTitle  string     `json:"job_title,omitempty"`
	Address   AddressDTO `json:"address"`
	Status    string     `json:"status"`
	Source    string     `json:"source,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE PROSPECT"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain customer to a response
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		JobTitle:  c.JobTitle,
		Address:   toAddressDTO(c.Address),
		Status:    string(c.Status),
		Source:    c.Source,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Title             string           `json:"title" binding:"max=200"`
	Email             string           `json:"email" binding:"omitempty,email,max=200"`
	Phone             string           `json:"phone" binding:"max=50"`
	Company           string           `json:"company" binding:"max=200"`
	Source            string           `json:"source" binding:"max=100"`
	Status            string           `json:"status" binding:"omitempty,oneof=NEW CONTACTED QUALIFIED UNQUALIFIED CONVERTED"`
	Score             int              `json:"score" binding:"min=0,max=100"`
	Notes             string           `json:"notes"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	Website           string           `json:"website" binding:"max=300"`
	Industry          string           `json:"industry" binding:"max=100"`
	AnnualRevenue     *decimal.Decimal `json:"annual_revenue"`
	NumberOfEmployees int              `json:"number_of_employees" binding:"min=0"`
	Rating            string           `json:"rating" binding:"omitempty,oneof=HOT WARM COLD"`
	Address           AddressDTO       `json:"address"`
	LinkedIn          string           `json:"linkedin" binding:"max=300"`
	Twitter           string           `json:"twitter" binding:"max=100"`
}

// UpdateLeadRequest represents a request to update a lead
type UpdateLeadRequest CreateLeadRequest

// UpdateLeadStatusRequest changes only the lead status
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=NEW CONTACTED QUALIFIED UNQUALIFIED CONVERTED"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	Name                string          `json:"name"`
	Title               string          `json:"title,omitempty"`
	Email               string          `json:"email,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	Company             string          `json:"company,omitempty"`
	Source              string          `json:"source,omitempty"`
	Status              string          `json:"status"`
	Score               int             `json:"score"`
	IsConverted         bool            `json:"is_converted"`
	ConvertedCustomerID *uuid.UUID      `json:"converted_customer_id,omitempty"`
	ConvertedAt         *time.Time      `json:"converted_at,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	AssignedTo          *uuid.UUID      `json:"assigned_to,omitempty"`
	Website             string          `json:"website,omitempty"`
	Industry            string          `json:"industry,omitempty"`
	AnnualRevenue       decimal.Decimal `json:"annual_revenue"`
	NumberOfEmployees   int             `json:"number_of_employees"`
	Rating              string          `json:"rating,omitempty"`
	Address             AddressDTO      `json:"address"`
	LinkedIn            string          `json:"linkedin,omitempty"`
	Twitter             string          `json:"twitter,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=NEW CONTACTED QUALIFIED UNQUALIFIED CONVERTED"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConvertLeadResponse is returned by a lead conversion
type ConvertLeadResponse struct {
	Lead     LeadResponse     `json:"lead"`
	Customer CustomerResponse `json:"customer"`
}

// LeadHistoryResponse represents one lead audit row
type LeadHistoryResponse struct {
	ID           uuid.UUID `json:"id"`
	LeadID       uuid.UUID `json:"lead_id"`
	FieldChanged string    `json:"field_changed"`
	OldValue     string    `json:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty"`
	ChangedBy    string    `json:"changed_by,omitempty"`
	ChangedAt    time.Time `json:"changed_at"`
}

// ToLeadResponse converts a domain lead to a response
func ToLeadResponse(l *customer.Lead) LeadResponse {
	return LeadResponse{
		ID:                  l.ID,
		TenantID:            l.TenantID,
		Name:                l.Name,
		Title:               l.Title,
		Email:               l.Email,
		Phone:               l.Phone,
		Company:             l.Company,
		Source:              l.Source,
		Status:              string(l.Status),
		Score:               l.Score,
		IsConverted:         l.IsConverted,
		ConvertedCustomerID: l.ConvertedCustomerID,
		ConvertedAt:         l.ConvertedAt,
		Notes:               l.Notes,
		AssignedTo:          l.AssignedTo,
		Website:             l.Website,
		Industry:            l.Industry,
		AnnualRevenue:       l.AnnualRevenue,
		NumberOfEmployees:   l.NumberOfEmployees,
		Rating:              string(l.Rating),
		Address:             toAddressDTO(l.Address),
		LinkedIn:            l.LinkedIn,
		Twitter:             l.Twitter,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// ToLeadResponses converts a slice of leads
func ToLeadResponses(leads []customer.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = ToLeadResponse(&leads[i])
	}
	return out
}

func toLeadHistoryResponses(rows []customer.LeadHistory) []LeadHistoryResponse {
	out := make([]LeadHistoryResponse, len(rows))
	for i, h := range rows {
		out[i] = LeadHistoryResponse{
			ID:           h.ID,
			LeadID:       h.LeadID,
			FieldChanged: string(h.FieldChanged),
			OldValue:     h.OldValue,
			NewValue:     h.NewValue,
			ChangedBy:    h.ChangedBy,
			ChangedAt:    h.ChangedAt,
		}
	}
	return out
}

// CreateActivityRequest represents a request to log an activity
type CreateActivityRequest struct {
	Type            string     `json:"type" binding:"required,oneof=CALL EMAIL MEETING NOTE TASK"`
	Description     string     `json:"description"`
	CustomerID      *uuid.UUID `json:"customer_id"`
	LeadID          *uuid.UUID `json:"lead_id"`
	PerformedBy     string     `json:"performed_by" binding:"max=100"`
	Phone           string     `json:"phone" binding:"max=50"`
	DurationSeconds int        `json:"duration_seconds" binding:"min=0"`
	Outcome         string     `json:"outcome" binding:"max=200"`
	Direction       string     `json:"direction" binding:"omitempty,oneof=INBOUND OUTBOUND"`
	RecordingURL    string     `json:"recording_url" binding:"omitempty,url,max=500"`
	StartTime       *time.Time `json:"start_time"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Description     string     `json:"description,omitempty"`
	CustomerID      *uuid.UUID `json:"customer_id,omitempty"`
	LeadID          *uuid.UUID `json:"lead_id,omitempty"`
	PerformedBy     string     `json:"performed_by,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Outcome         string     `json:"outcome,omitempty"`
	Direction       string     `json:"direction,omitempty"`
	RecordingURL    string     `json:"recording_url,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToActivityResponses converts a slice of activities
func ToActivityResponses(activities []customer.Activity) []ActivityResponse {
	out := make([]ActivityResponse, len(activities))
	for i := range activities {
		out[i] = toActivityResponse(&activities[i])
	}
	return out
}

func toActivityResponse(a *customer.Activity) ActivityResponse {
	return ActivityResponse{
		ID:              a.ID,
		Type:            string(a.Type),
		Description:     a.Description,
		CustomerID:      a.CustomerID,
		LeadID:          a.LeadID,
		PerformedBy:     a.PerformedBy,
		Phone:           a.Phone,
		DurationSeconds: a.DurationSeconds,
		Outcome:         a.Outcome,
		Direction:       string(a.Direction),
		RecordingURL:    a.RecordingURL,
		StartTime:       a.StartTime,
		CreatedAt:       a.CreatedAt,
	}
}

// CreateNoteRequest represents a request to attach a note to a customer
type CreateNoteRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Content    string    `json:"content" binding:"required,max=10000"`
}

// UpdateNoteRequest replaces the note content
type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Content    string    `json:"content"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toNoteResponse(n *customer.Note) NoteResponse {
	return NoteResponse{
		ID:         n.ID,
		CustomerID: n.CustomerID,
		Content:    n.Content,
		CreatedBy:  n.CreatedBy,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// ToNoteResponses converts a slice of notes
func ToNoteResponses(notes []customer.Note) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i := range notes {
		out[i] = toNoteResponse(&notes[i])
	}
	return out
}
