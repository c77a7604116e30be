package sales

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeDeal is the aggregate type of deal events
const AggregateTypeDeal = "Deal"

// Event type constants
const (
	EventTypeDealCreated      = "DealCreated"
	EventTypeDealUpdated      = "DealUpdated"
	EventTypeDealStageChanged = "DealStageChanged"
)

// DealEvent carries a snapshot of the deal attributes rules can test
type DealEvent struct {
	shared.BaseDomainEvent
	DealID      uuid.UUID       `json:"deal_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Stage       DealStage       `json:"stage"`
	OldStage    DealStage       `json:"old_stage,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Probability int             `json:"probability"`
	Priority    Priority        `json:"priority"`
	AssignedTo  *uuid.UUID      `json:"assigned_to,omitempty"`
}

// Payload exposes the deal snapshot to workflow rules
func (e *DealEvent) Payload() map[string]any {
	value, _ := e.Value.Float64()
	p := map[string]any{
		"dealId":      e.DealID.String(),
		"customerId":  e.CustomerID.String(),
		"stage":       string(e.Stage),
		"status":      string(e.Stage),
		"value":       value,
		"probability": e.Probability,
		"priority":    string(e.Priority),
	}
	if e.OldStage != "" {
		p["oldStage"] = string(e.OldStage)
	}
	if e.AssignedTo != nil {
		p["assignedTo"] = e.AssignedTo.String()
	}
	return p
}

func newDealEvent(eventType string, d *Deal) *DealEvent {
	return &DealEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDeal, d.ID, d.TenantID),
		DealID:          d.ID,
		CustomerID:      d.CustomerID,
		Stage:           d.Stage,
		Value:           d.Value,
		Probability:     d.Probability,
		Priority:        d.Priority,
		AssignedTo:      d.AssignedTo,
	}
}

// NewDealCreatedEvent creates the event published when a deal is created
func NewDealCreatedEvent(d *Deal) *DealEvent {
	return newDealEvent(EventTypeDealCreated, d)
}

// NewDealUpdatedEvent creates the event published when a deal is updated
func NewDealUpdatedEvent(d *Deal) *DealEvent {
	return newDealEvent(EventTypeDealUpdated, d)
}

// NewDealStageChangedEvent creates the event published on a stage transition
func NewDealStageChangedEvent(d *Deal, oldStage DealStage) *DealEvent {
	e := newDealEvent(EventTypeDealStageChanged, d)
	e.OldStage = oldStage
	return e
}

var _ shared.PayloadEvent = (*DealEvent)(nil)
