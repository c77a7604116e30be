package models

import (
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	TenantAggregateModel
	FirstName string                  `gorm:"type:varchar(100);not null"`
	LastName  string                  `gorm:"type:varchar(100);not null"`
	Email     string                  `gorm:"type:varchar(200);not null;index"`
	Phone     string                  `gorm:"type:varchar(50)"`
	Company   string                  `gorm:"type:varchar(200)"`
	JobTitle  string                  `gorm:"type:varchar(200)"`
	Address   AddressColumns          `gorm:"embedded;embeddedPrefix:address_"`
	Status    customer.CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Source    string                  `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Email:               m.Email,
		Phone:               m.Phone,
		Company:             m.Company,
		JobTitle:            m.JobTitle,
		Address:             addressToDomain(m.Address),
		Status:              m.Status,
		Source:              m.Source,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		JobTitle:  c.JobTitle,
		Address:   addressFromDomain(c.Address),
		Status:    c.Status,
		Source:    c.Source,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// LeadModel is the persistence model for the Lead aggregate
type LeadModel struct {
	TenantAggregateModel
	Name                string              `gorm:"type:varchar(200);not null"`
	Title               string              `gorm:"type:varchar(200)"`
	Email               string              `gorm:"type:varchar(200)"`
	Phone               string              `gorm:"type:varchar(50)"`
	Company             string              `gorm:"type:varchar(200)"`
	Source              string              `gorm:"type:varchar(100)"`
	Status              customer.LeadStatus `gorm:"type:varchar(20);not null;default:'NEW';index"`
	Score               int                 `gorm:"not null;default:0;index"`
	IsConverted         bool                `gorm:"not null;default:false"`
	ConvertedCustomerID *uuid.UUID          `gorm:"type:uuid"`
	ConvertedAt         *time.Time
	Notes               string              `gorm:"type:text"`
	AssignedTo          *uuid.UUID          `gorm:"type:uuid;index"`
	Website             string              `gorm:"type:varchar(300)"`
	Industry            string              `gorm:"type:varchar(100)"`
	AnnualRevenue       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	NumberOfEmployees   int                 `gorm:"not null;default:0"`
	Rating              customer.LeadRating `gorm:"type:varchar(10)"`
	Address             AddressColumns      `gorm:"embedded;embeddedPrefix:address_"`
	LinkedIn            string              `gorm:"type:varchar(300)"`
	Twitter             string              `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the model to a domain Lead
func (m *LeadModel) ToDomain() *customer.Lead {
	return &customer.Lead{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Title:               m.Title,
		Email:               m.Email,
		Phone:               m.Phone,
		Company:             m.Company,
		Source:              m.Source,
		Status:              m.Status,
		Score:               m.Score,
		IsConverted:         m.IsConverted,
		ConvertedCustomerID: m.ConvertedCustomerID,
		ConvertedAt:         m.ConvertedAt,
		Notes:               m.Notes,
		AssignedTo:          m.AssignedTo,
		Website:             m.Website,
		Industry:            m.Industry,
		AnnualRevenue:       m.AnnualRevenue,
		NumberOfEmployees:   m.NumberOfEmployees,
		Rating:              m.Rating,
		Address:             addressToDomain(m.Address),
		LinkedIn:            m.LinkedIn,
		Twitter:             m.Twitter,
	}
}

// LeadModelFromDomain creates a persistence model from a domain Lead
func LeadModelFromDomain(l *customer.Lead) *LeadModel {
	m := &LeadModel{
		Name:                l.Name,
		Title:               l.Title,
		Email:               l.Email,
		Phone:               l.Phone,
		Company:             l.Company,
		Source:              l.Source,
		Status:              l.Status,
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
		Rating:              l.Rating,
		Address:             addressFromDomain(l.Address),
		LinkedIn:            l.LinkedIn,
		Twitter:             l.Twitter,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// LeadHistoryModel is the persistence model for lead change history
type LeadHistoryModel struct {
	TenantModel
	LeadID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	FieldChanged customer.LeadHistoryField `gorm:"type:varchar(20);not null"`
	OldValue     string                    `gorm:"type:text"`
	NewValue     string                    `gorm:"type:text"`
	ChangedBy    string                    `gorm:"type:varchar(100)"`
	ChangedAt    time.Time                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LeadHistoryModel) TableName() string {
	return "lead_history"
}

// ToDomain converts the model to a domain LeadHistory
func (m *LeadHistoryModel) ToDomain() *customer.LeadHistory {
	return &customer.LeadHistory{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		LeadID:       m.LeadID,
		FieldChanged: m.FieldChanged,
		OldValue:     m.OldValue,
		NewValue:     m.NewValue,
		ChangedBy:    m.ChangedBy,
		ChangedAt:    m.ChangedAt,
	}
}

// LeadHistoryModelFromDomain creates a persistence model from a domain LeadHistory
func LeadHistoryModelFromDomain(h *customer.LeadHistory) *LeadHistoryModel {
	m := &LeadHistoryModel{
		LeadID:       h.LeadID,
		FieldChanged: h.FieldChanged,
		OldValue:     h.OldValue,
		NewValue:     h.NewValue,
		ChangedBy:    h.ChangedBy,
		ChangedAt:    h.ChangedAt,
	}
	m.FromDomainTenantEntity(h.BaseEntity, h.TenantID)
	return m
}

// ActivityModel is the persistence model for customer and lead activities
type ActivityModel struct {
	TenantModel
	Type            customer.ActivityType  `gorm:"type:varchar(20);not null"`
	Description     string                 `gorm:"type:text"`
	CustomerID      *uuid.UUID             `gorm:"type:uuid;index"`
	LeadID          *uuid.UUID             `gorm:"type:uuid;index"`
	PerformedBy     string                 `gorm:"type:varchar(100)"`
	Phone           string                 `gorm:"type:varchar(50)"`
	DurationSeconds int                    `gorm:"not null;default:0"`
	Outcome         string                 `gorm:"type:varchar(200)"`
	Direction       customer.CallDirection `gorm:"type:varchar(10)"`
	RecordingURL    string                 `gorm:"type:varchar(500)"`
	StartTime       time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the model to a domain Activity
func (m *ActivityModel) ToDomain() *customer.Activity {
	return &customer.Activity{
		BaseEntity:      m.BaseModel.ToDomain(),
		TenantID:        m.TenantID,
		Type:            m.Type,
		Description:     m.Description,
		CustomerID:      m.CustomerID,
		LeadID:          m.LeadID,
		PerformedBy:     m.PerformedBy,
		Phone:           m.Phone,
		DurationSeconds: m.DurationSeconds,
		Outcome:         m.Outcome,
		Direction:       m.Direction,
		RecordingURL:    m.RecordingURL,
		StartTime:       m.StartTime,
	}
}

// ActivityModelFromDomain creates a persistence model from a domain Activity
func ActivityModelFromDomain(a *customer.Activity) *ActivityModel {
	m := &ActivityModel{
		Type:            a.Type,
		Description:     a.Description,
		CustomerID:      a.CustomerID,
		LeadID:          a.LeadID,
		PerformedBy:     a.PerformedBy,
		Phone:           a.Phone,
		DurationSeconds: a.DurationSeconds,
		Outcome:         a.Outcome,
		Direction:       a.Direction,
		RecordingURL:    a.RecordingURL,
		StartTime:       a.StartTime,
	}
	m.FromDomainTenantEntity(a.BaseEntity, a.TenantID)
	return m
}

// NoteModel is the persistence model for customer notes
type NoteModel struct {
	TenantModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	CreatedBy  string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "notes"
}

// ToDomain converts the model to a domain Note
func (m *NoteModel) ToDomain() *customer.Note {
	return &customer.Note{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		CustomerID: m.CustomerID,
		Content:    m.Content,
		CreatedBy:  m.CreatedBy,
	}
}

// NoteModelFromDomain creates a persistence model from a domain Note
func NoteModelFromDomain(n *customer.Note) *NoteModel {
	m := &NoteModel{
		CustomerID: n.CustomerID,
		Content:    n.Content,
		CreatedBy:  n.CreatedBy,
	}
	m.FromDomainTenantEntity(n.BaseEntity, n.TenantID)
	return m
}

func addressToDomain(a AddressColumns) valueobject.Address {
	return valueobject.Address{Street: a.Street, City: a.City, State: a.State, Country: a.Country}
}

func addressFromDomain(a valueobject.Address) AddressColumns {
	return AddressColumns{Street: a.Street, City: a.City, State: a.State, Country: a.Country}
}
