package customer

import (
	"strconv"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadStatus represents the qualification stage of a lead
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusQualified   LeadStatus = "QUALIFIED"
	LeadStatusUnqualified LeadStatus = "UNQUALIFIED"
	LeadStatusConverted   LeadStatus = "CONVERTED"
)

// IsValid checks if the lead status is a known value
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusUnqualified, LeadStatusConverted:
		return true
	}
	return false
}

// ParseLeadStatus normalizes and validates a status string
func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Invalid lead status: "+s)
	}
	return status, nil
}

// LeadRating is the sales temperature of a lead
type LeadRating string

const (
	LeadRatingHot  LeadRating = "HOT"
	LeadRatingWarm LeadRating = "WARM"
	LeadRatingCold LeadRating = "COLD"
)

// ParseLeadRating normalizes a rating; an empty string yields an empty rating
func ParseLeadRating(s string) (LeadRating, error) {
	rating := LeadRating(strings.ToUpper(strings.TrimSpace(s)))
	switch rating {
	case "", LeadRatingHot, LeadRatingWarm, LeadRatingCold:
		return rating, nil
	}
	return "", shared.NewDomainError("INVALID_RATING", "Invalid lead rating: "+s)
}

const (
	MinLeadScore = 0
	MaxLeadScore = 100
	// DefaultHighScoreThreshold is the score from which a lead counts as hot
	DefaultHighScoreThreshold = 70
)

// Lead is a prospective customer that has not been converted yet
type Lead struct {
	shared.TenantAggregateRoot
	Name                string
	Title               string
	Email               string
	Phone               string
	Company             string
	Source              string
	Status              LeadStatus
	Score               int
	IsConverted         bool
	ConvertedCustomerID *uuid.UUID
	ConvertedAt         *time.Time
	Notes               string
	AssignedTo          *uuid.UUID
	Website             string
	Industry            string
	AnnualRevenue       decimal.Decimal
	NumberOfEmployees   int
	Rating              LeadRating
	Address             valueobject.Address
	LinkedIn            string
	Twitter             string
}

// LeadDetails carries every user-editable lead field
type LeadDetails struct {
	Name              string
	Title             string
	Email             string
	Phone             string
	Company           string
	Source            string
	Status            LeadStatus
	Score             int
	Notes             string
	AssignedTo        *uuid.UUID
	Website           string
	Industry          string
	AnnualRevenue     decimal.Decimal
	NumberOfEmployees int
	Rating            LeadRating
	Address           valueobject.Address
	LinkedIn          string
	Twitter           string
}

// LeadChange describes one tracked field change on a lead
type LeadChange struct {
	Field    LeadHistoryField
	OldValue string
	NewValue string
}

// NewLead creates a lead; an empty status defaults to NEW
func NewLead(tenantID uuid.UUID, d LeadDetails) (*Lead, error) {
	if d.Status == "" {
		d.Status = LeadStatusNew
	}
	if err := validateLead(&d); err != nil {
		return nil, err
	}
	l := &Lead{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	l.apply(d)
	l.AddDomainEvent(NewLeadCreatedEvent(l))
	return l, nil
}

// Update applies new details and returns the tracked changes (status, score, notes).
// An empty status keeps the current one.
func (l *Lead) Update(d LeadDetails) ([]LeadChange, error) {
	if d.Status == "" {
		d.Status = l.Status
	}
	if err := validateLead(&d); err != nil {
		return nil, err
	}

	var changes []LeadChange
	oldStatus, oldScore := l.Status, l.Score
	if l.Status != d.Status {
		changes = append(changes, LeadChange{Field: LeadHistoryStatus, OldValue: string(l.Status), NewValue: string(d.Status)})
	}
	if l.Score != d.Score {
		changes = append(changes, LeadChange{Field: LeadHistoryScore, OldValue: strconv.Itoa(l.Score), NewValue: strconv.Itoa(d.Score)})
	}
	if l.Notes != d.Notes {
		changes = append(changes, LeadChange{Field: LeadHistoryNote, OldValue: l.Notes, NewValue: d.Notes})
	}

	l.apply(d)
	l.Touch()

	l.AddDomainEvent(NewLeadUpdatedEvent(l))
	if oldStatus != l.Status {
		l.AddDomainEvent(NewLeadStatusChangedEvent(l, oldStatus))
	}
	if oldScore != l.Score {
		l.AddDomainEvent(NewLeadScoreChangedEvent(l, oldScore))
	}
	return changes, nil
}

// ChangeStatus moves the lead to a new status.
// It returns nil when the status is unchanged.
func (l *Lead) ChangeStatus(status LeadStatus) (*LeadChange, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid lead status: "+string(status))
	}
	if l.Status == status {
		return nil, nil
	}
	old := l.Status
	l.Status = status
	l.Touch()
	l.AddDomainEvent(NewLeadStatusChangedEvent(l, old))
	return &LeadChange{Field: LeadHistoryStatus, OldValue: string(old), NewValue: string(status)}, nil
}

// CanConvert reports whether the lead can become a customer
func (l *Lead) CanConvert() error {
	if l.IsConverted {
		return shared.NewDomainError("INVALID_STATE", "Lead has already been converted")
	}
	if l.Email == "" {
		return shared.NewDomainError("INVALID_STATE", "Lead needs an email before conversion")
	}
	return nil
}

// MarkConverted records the customer created from this lead
func (l *Lead) MarkConverted(customerID uuid.UUID) (*LeadChange, error) {
	if err := l.CanConvert(); err != nil {
		return nil, err
	}
	old := l.Status
	now := time.Now()
	l.Status = LeadStatusConverted
	l.IsConverted = true
	l.ConvertedCustomerID = &customerID
	l.ConvertedAt = &now
	l.Touch()
	if old != LeadStatusConverted {
		l.AddDomainEvent(NewLeadStatusChangedEvent(l, old))
	}
	return &LeadChange{Field: LeadHistoryStatus, OldValue: string(old), NewValue: string(LeadStatusConverted)}, nil
}

// SplitName splits the lead name into first and last name for conversion.
// A single word is used for both parts.
func (l *Lead) SplitName() (string, string) {
	fields := strings.Fields(l.Name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], fields[0]
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func (l *Lead) apply(d LeadDetails) {
	l.Name = d.Name
	l.Title = d.Title
	l.Email = d.Email
	l.Phone = d.Phone
	l.Company = d.Company
	l.Source = d.Source
	l.Status = d.Status
	l.Score = d.Score
	l.Notes = d.Notes
	l.AssignedTo = d.AssignedTo
	l.Website = d.Website
	l.Industry = d.Industry
	l.AnnualRevenue = d.AnnualRevenue
	l.NumberOfEmployees = d.NumberOfEmployees
	l.Rating = d.Rating
	l.Address = d.Address
	l.LinkedIn = d.LinkedIn
	l.Twitter = d.Twitter
}

func validateLead(d *LeadDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(d.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	if err := validateEmail(d.Email, false); err != nil {
		return err
	}
	if !d.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid lead status: "+string(d.Status))
	}
	if d.Score < MinLeadScore || d.Score > MaxLeadScore {
		return shared.NewDomainError("INVALID_SCORE", "Lead score must be between 0 and 100")
	}
	if d.AnnualRevenue.IsNegative() {
		return shared.NewDomainError("INVALID_REVENUE", "Annual revenue cannot be negative")
	}
	if d.NumberOfEmployees < 0 {
		return shared.NewDomainError("INVALID_EMPLOYEES", "Number of employees cannot be negative")
	}
	if _, err := ParseLeadRating(string(d.Rating)); err != nil {
		return err
	}
	return nil
}
