package workflow

import (
	"time"

	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// RuleRequest creates or replaces a rule
type RuleRequest struct {
	Name                string `json:"name" binding:"required,max=200"`
	Description         string `json:"description" binding:"max=2000"`
	EntityType          string `json:"entity_type" binding:"required,oneof=LEAD DEAL TICKET CAMPAIGN"`
	TriggerEvent        string `json:"trigger_event" binding:"required,oneof=CREATED UPDATED STATUS_CHANGED SCORE_CHANGED"`
	ConditionExpression string `json:"condition_expression"`
	ActionType          string `json:"action_type" binding:"required,max=50"`
	ActionParams        string `json:"action_params"`
	Active              *bool  `json:"active"`
	Priority            int    `json:"priority"`
}

func (r RuleRequest) details() workflow.RuleDetails {
	return workflow.RuleDetails{
		Name:                r.Name,
		Description:         r.Description,
		EntityType:          workflow.EntityType(r.EntityType),
		TriggerEvent:        workflow.TriggerEvent(r.TriggerEvent),
		ConditionExpression: r.ConditionExpression,
		ActionType:          r.ActionType,
		ActionParams:        r.ActionParams,
		Active:              r.Active,
		Priority:            r.Priority,
	}
}

// RuleResponse represents a workflow rule
type RuleResponse struct {
	ID                  uuid.UUID `json:"id"`
	TenantID            uuid.UUID `json:"tenant_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	EntityType          string    `json:"entity_type"`
	TriggerEvent        string    `json:"trigger_event"`
	ConditionExpression string    `json:"condition_expression,omitempty"`
	ActionType          string    `json:"action_type"`
	ActionParams        string    `json:"action_params,omitempty"`
	Active              bool      `json:"active"`
	Priority            int       `json:"priority"`
	CreatedBy           string    `json:"created_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ActionRequest creates an action definition
type ActionRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Description     string `json:"description" binding:"max=2000"`
	Type            string `json:"type" binding:"max=50"`
	TargetService   string `json:"target_service" binding:"max=200"`
	TargetEndpoint  string `json:"target_endpoint" binding:"max=500"`
	PayloadTemplate string `json:"payload_template"`
	Active          *bool  `json:"active"`
}

// ActionResponse represents an action definition
type ActionResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Type            string    `json:"type,omitempty"`
	TargetService   string    `json:"target_service,omitempty"`
	TargetEndpoint  string    `json:"target_endpoint,omitempty"`
	PayloadTemplate string    `json:"payload_template,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// LogResponse represents one rule execution
type LogResponse struct {
	ID           uuid.UUID `json:"id"`
	RuleID       uuid.UUID `json:"rule_id"`
	RuleName     string    `json:"rule_name"`
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	TriggerEvent string    `json:"trigger_event"`
	ActionType   string    `json:"action_type"`
	Status       string    `json:"status"`
	InputData    string    `json:"input_data"`
	OutputData   string    `json:"output_data"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// TriggerRequest fires the engine by hand
type TriggerRequest struct {
	EntityType   string         `json:"entity_type" binding:"required,oneof=LEAD DEAL TICKET CAMPAIGN"`
	EntityID     string         `json:"entity_id" binding:"required"`
	TriggerEvent string         `json:"trigger_event" binding:"required,oneof=CREATED UPDATED STATUS_CHANGED SCORE_CHANGED"`
	Data         map[string]any `json:"data"`
}

// ToRuleResponse converts a domain rule to a response
func ToRuleResponse(r *workflow.Rule) RuleResponse {
	return RuleResponse{
		ID:                  r.ID,
		TenantID:            r.TenantID,
		Name:                r.Name,
		Description:         r.Description,
		EntityType:          string(r.EntityType),
		TriggerEvent:        string(r.TriggerEvent),
		ConditionExpression: r.ConditionExpression,
		ActionType:          r.ActionType,
		ActionParams:        r.ActionParams,
		Active:              r.Active,
		Priority:            r.Priority,
		CreatedBy:           r.CreatedByName,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToRuleResponses converts a slice of rules
func ToRuleResponses(rules []workflow.Rule) []RuleResponse {
	out := make([]RuleResponse, len(rules))
	for i := range rules {
		out[i] = ToRuleResponse(&rules[i])
	}
	return out
}

func toActionResponse(a *workflow.Action) ActionResponse {
	return ActionResponse{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		Type:            a.Type,
		TargetService:   a.TargetService,
		TargetEndpoint:  a.TargetEndpoint,
		PayloadTemplate: a.PayloadTemplate,
		Active:          a.Active,
		CreatedAt:       a.CreatedAt,
	}
}

// ToActionResponses converts a slice of actions
func ToActionResponses(actions []workflow.Action) []ActionResponse {
	out := make([]ActionResponse, len(actions))
	for i := range actions {
		out[i] = toActionResponse(&actions[i])
	}
	return out
}

// ToLogResponse converts a domain log to a response
func ToLogResponse(l *workflow.Log) LogResponse {
	return LogResponse{
		ID:           l.ID,
		RuleID:       l.RuleID,
		RuleName:     l.RuleName,
		EntityType:   string(l.EntityType),
		EntityID:     l.EntityID,
		TriggerEvent: string(l.TriggerEvent),
		ActionType:   l.ActionType,
		Status:       string(l.Status),
		InputData:    l.InputData,
		OutputData:   l.OutputData,
		ExecutedAt:   l.ExecutedAt,
	}
}

// ToLogResponses converts a slice of logs
func ToLogResponses(logs []workflow.Log) []LogResponse {
	out := make([]LogResponse, len(logs))
	for i := range logs {
		out[i] = ToLogResponse(&logs[i])
	}
	return out
}
