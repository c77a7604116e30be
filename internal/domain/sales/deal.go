package sales

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStage is the pipeline stage of a deal
type DealStage string

const (
	DealStageNew         DealStage = "NEW"
	DealStageQualified   DealStage = "QUALIFIED"
	DealStageProposal    DealStage = "PROPOSAL"
	DealStageNegotiation DealStage = "NEGOTIATION"
	DealStageClosedWon   DealStage = "CLOSED_WON"
	DealStageClosedLost  DealStage = "CLOSED_LOST"
)

// AllDealStages lists stages in pipeline order
func AllDealStages() []DealStage {
	return []DealStage{
		DealStageNew,
		DealStageQualified,
		DealStageProposal,
		DealStageNegotiation,
		DealStageClosedWon,
		DealStageClosedLost,
	}
}

// IsValid checks if the stage is known
func (s DealStage) IsValid() bool {
	for _, st := range AllDealStages() {
		if s == st {
			return true
		}
	}
	return false
}

// IsClosed reports whether the stage ends the deal
func (s DealStage) IsClosed() bool {
	return s == DealStageClosedWon || s == DealStageClosedLost
}

// ParseDealStage normalizes and validates a stage string
func ParseDealStage(s string) (DealStage, error) {
	stage := DealStage(strings.ToUpper(strings.TrimSpace(s)))
	if !stage.IsValid() {
		return "", shared.NewDomainError("INVALID_STAGE", "Invalid deal stage: "+s)
	}
	return stage, nil
}

// Priority is shared by deals
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority normalizes a priority; empty yields MEDIUM
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", shared.NewDomainError("INVALID_PRIORITY", "Invalid priority: "+s)
}

// DealType distinguishes new from existing business
type DealType string

const (
	DealTypeNewBusiness      DealType = "NEW_BUSINESS"
	DealTypeExistingBusiness DealType = "EXISTING_BUSINESS"
)

// ParseDealType returns the deal type or an empty type for unknown input
func ParseDealType(s string) DealType {
	t := DealType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case DealTypeNewBusiness, DealTypeExistingBusiness:
		return t
	}
	return ""
}

// Deal is a sales opportunity tied to a customer moving through the pipeline
type Deal struct {
	shared.TenantAggregateRoot
	Title             string
	Description       string
	Value             decimal.Decimal
	Stage             DealStage
	CustomerID        uuid.UUID
	AssignedTo        *uuid.UUID
	Priority          Priority
	ExpectedCloseDate *time.Time
	Type              DealType
	LeadSource        string
	NextStep          string
	Probability       int
	CampaignSource    string
	ClosedAt          *time.Time
}

// DealDetails carries the editable fields of a deal
type DealDetails struct {
	Title             string
	Description       string
	Value             decimal.Decimal
	Stage             DealStage
	CustomerID        uuid.UUID
	AssignedTo        *uuid.UUID
	Priority          Priority
	ExpectedCloseDate *time.Time
	Type              DealType
	LeadSource        string
	NextStep          string
	Probability       int
	CampaignSource    string
}

// NewDeal creates a deal; stage defaults to NEW and priority to MEDIUM
func NewDeal(tenantID uuid.UUID, d DealDetails) (*Deal, error) {
	if d.Stage == "" {
		d.Stage = DealStageNew
	}
	if err := validateDeal(&d); err != nil {
		return nil, err
	}
	deal := &Deal{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	deal.apply(d)
	deal.syncClosedAt()
	deal.AddDomainEvent(NewDealCreatedEvent(deal))
	return deal, nil
}

// Update replaces the deal details; an empty stage keeps the current one
func (d *Deal) Update(details DealDetails) error {
	if details.Stage == "" {
		details.Stage = d.Stage
	}
	if err := validateDeal(&details); err != nil {
		return err
	}
	oldStage := d.Stage
	d.apply(details)
	d.syncClosedAt()
	d.Touch()

	d.AddDomainEvent(NewDealUpdatedEvent(d))
	if oldStage != d.Stage {
		d.AddDomainEvent(NewDealStageChangedEvent(d, oldStage))
	}
	return nil
}

// MoveToStage changes the pipeline stage
func (d *Deal) MoveToStage(stage DealStage) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Invalid deal stage: "+string(stage))
	}
	if d.Stage == stage {
		return nil
	}
	old := d.Stage
	d.Stage = stage
	d.syncClosedAt()
	d.Touch()
	d.AddDomainEvent(NewDealStageChangedEvent(d, old))
	return nil
}

func (d *Deal) syncClosedAt() {
	if d.Stage.IsClosed() {
		if d.ClosedAt == nil {
			now := time.Now()
			d.ClosedAt = &now
		}
		return
	}
	d.ClosedAt = nil
}

func (d *Deal) apply(details DealDetails) {
	d.Title = details.Title
	d.Description = details.Description
	d.Value = details.Value
	d.Stage = details.Stage
	d.CustomerID = details.CustomerID
	d.AssignedTo = details.AssignedTo
	d.Priority = details.Priority
	d.ExpectedCloseDate = details.ExpectedCloseDate
	d.Type = details.Type
	d.LeadSource = details.LeadSource
	d.NextStep = details.NextStep
	d.Probability = details.Probability
	d.CampaignSource = details.CampaignSource
}

func validateDeal(d *DealDetails) error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(d.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 200 characters")
	}
	if d.CustomerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Deal must reference a customer")
	}
	if d.Value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Deal value cannot be negative")
	}
	if !d.Stage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Invalid deal stage: "+string(d.Stage))
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if _, err := ParsePriority(string(d.Priority)); err != nil {
		return err
	}
	d.Type = ParseDealType(string(d.Type))
	if err := validateProbability(d.Probability); err != nil {
		return err
	}
	return nil
}

func validateProbability(p int) error {
	if p < 0 || p > 100 {
		return shared.NewDomainError("INVALID_PROBABILITY", "Probability must be between 0 and 100")
	}
	return nil
}

// StageSummary aggregates deals in one pipeline stage
type StageSummary struct {
	Stage      DealStage
	Count      int64
	TotalValue decimal.Decimal
}
