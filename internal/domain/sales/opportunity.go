package sales

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityStatus is the outcome state of an opportunity
type OpportunityStatus string

const (
	OpportunityStatusOpen OpportunityStatus = "OPEN"
	OpportunityStatusWon  OpportunityStatus = "WON"
	OpportunityStatusLost OpportunityStatus = "LOST"
)

// ParseOpportunityStatus normalizes and validates a status string
func ParseOpportunityStatus(s string) (OpportunityStatus, error) {
	st := OpportunityStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case OpportunityStatusOpen, OpportunityStatusWon, OpportunityStatusLost:
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Invalid opportunity status: "+s)
}

// DefaultHighProbability is the default threshold for high-probability opportunities
const DefaultHighProbability = 70

// Opportunity is a potential sale tracked by amount and probability
type Opportunity struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	Name        string
	Amount      decimal.Decimal
	Probability int
	Source      string
	CustomerID  *uuid.UUID
	AssignedTo  *uuid.UUID
	Status      OpportunityStatus
}

// OpportunityDetails carries the editable fields of an opportunity
type OpportunityDetails struct {
	Name        string
	Amount      decimal.Decimal
	Probability int
	Source      string
	CustomerID  *uuid.UUID
	AssignedTo  *uuid.UUID
	Status      OpportunityStatus
}

// NewOpportunity creates an opportunity; status defaults to OPEN
func NewOpportunity(tenantID uuid.UUID, d OpportunityDetails) (*Opportunity, error) {
	if d.Status == "" {
		d.Status = OpportunityStatusOpen
	}
	if err := validateOpportunity(&d); err != nil {
		return nil, err
	}
	o := &Opportunity{BaseEntity: shared.NewBaseEntity(), TenantID: tenantID}
	o.apply(d)
	return o, nil
}

// Update replaces the opportunity details; an empty status keeps the current one
func (o *Opportunity) Update(d OpportunityDetails) error {
	if d.Status == "" {
		d.Status = o.Status
	}
	if err := validateOpportunity(&d); err != nil {
		return err
	}
	o.apply(d)
	o.Stamp()
	return nil
}

// SetStatus changes the opportunity status
func (o *Opportunity) SetStatus(status OpportunityStatus) error {
	if _, err := ParseOpportunityStatus(string(status)); err != nil {
		return err
	}
	o.Status = status
	o.Stamp()
	return nil
}

func (o *Opportunity) apply(d OpportunityDetails) {
	o.Name = d.Name
	o.Amount = d.Amount
	o.Probability = d.Probability
	o.Source = d.Source
	o.CustomerID = d.CustomerID
	o.AssignedTo = d.AssignedTo
	o.Status = d.Status
}

func validateOpportunity(d *OpportunityDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Opportunity name cannot be empty")
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if err := validateProbability(d.Probability); err != nil {
		return err
	}
	if _, err := ParseOpportunityStatus(string(d.Status)); err != nil {
		return err
	}
	return nil
}
