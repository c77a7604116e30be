package workflow

import (
	"encoding/json"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityType is the kind of record a rule watches
type EntityType string

const (
	EntityLead     EntityType = "LEAD"
	EntityDeal     EntityType = "DEAL"
	EntityTicket   EntityType = "TICKET"
	EntityCampaign EntityType = "CAMPAIGN"
)

// ParseEntityType normalizes and validates an entity type
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case EntityLead, EntityDeal, EntityTicket, EntityCampaign:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_ENTITY_TYPE", "Invalid entity type: "+s)
}

// TriggerEvent is the change that fires a rule
type TriggerEvent string

const (
	TriggerCreated       TriggerEvent = "CREATED"
	TriggerUpdated       TriggerEvent = "UPDATED"
	TriggerStatusChanged TriggerEvent = "STATUS_CHANGED"
	TriggerScoreChanged  TriggerEvent = "SCORE_CHANGED"
)

// ParseTriggerEvent normalizes and validates a trigger event
func ParseTriggerEvent(s string) (TriggerEvent, error) {
	t := TriggerEvent(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TriggerCreated, TriggerUpdated, TriggerStatusChanged, TriggerScoreChanged:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_TRIGGER_EVENT", "Invalid trigger event: "+s)
}

// Well-known action types. Rules may carry any other string, which executes as a no-op.
const (
	ActionSendNotification = "SEND_NOTIFICATION"
	ActionSendEmail        = "SEND_EMAIL"
	ActionCallWebhook      = "CALL_WEBHOOK"
	ActionLogOnly          = "LOG_ONLY"
)

// Rule reacts to an entity event by running an action when its condition holds
type Rule struct {
	shared.TenantAggregateRoot
	Name                string
	Description         string
	EntityType          EntityType
	TriggerEvent        TriggerEvent
	ConditionExpression string
	ActionType          string
	ActionParams        string
	Active              bool
	Priority            int
	CreatedByName       string
}

// RuleDetails carries the editable fields of a rule
type RuleDetails struct {
	Name                string
	Description         string
	EntityType          EntityType
	TriggerEvent        TriggerEvent
	ConditionExpression string
	ActionType          string
	ActionParams        string
	Active              *bool
	Priority            int
}

// NewRule creates an active rule unless Active says otherwise
func NewRule(tenantID uuid.UUID, d RuleDetails, createdBy string) (*Rule, error) {
	r := &Rule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
		CreatedByName:       createdBy,
	}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the rule definition
func (r *Rule) Update(d RuleDetails) error {
	if err := r.apply(d); err != nil {
		return err
	}
	r.Touch()
	return nil
}

// Toggle flips the active flag
func (r *Rule) Toggle() {
	r.Active = !r.Active
	r.Touch()
}

// Params decodes ActionParams as a JSON object; anything else yields an empty map
func (r *Rule) Params() map[string]any {
	out := make(map[string]any)
	if strings.TrimSpace(r.ActionParams) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(r.ActionParams), &out); err != nil {
		return map[string]any{}
	}
	return out
}

func (r *Rule) apply(d RuleDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	entityType, err := ParseEntityType(string(d.EntityType))
	if err != nil {
		return err
	}
	trigger, err := ParseTriggerEvent(string(d.TriggerEvent))
	if err != nil {
		return err
	}
	actionType := strings.TrimSpace(d.ActionType)
	if actionType == "" {
		return shared.NewDomainError("INVALID_ACTION_TYPE", "Rule action type cannot be empty")
	}

	r.Name = name
	r.Description = d.Description
	r.EntityType = entityType
	r.TriggerEvent = trigger
	r.ConditionExpression = strings.TrimSpace(d.ConditionExpression)
	r.ActionType = actionType
	r.ActionParams = d.ActionParams
	r.Priority = d.Priority
	if d.Active != nil {
		r.Active = *d.Active
	}
	return nil
}
