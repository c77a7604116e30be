package workflow

import (
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExecutionStatus is the outcome of one rule evaluation
type ExecutionStatus string

const (
	StatusPending ExecutionStatus = "PENDING"
	StatusSuccess ExecutionStatus = "SUCCESS"
	StatusFailed  ExecutionStatus = "FAILED"
	StatusSkipped ExecutionStatus = "SKIPPED"
)

// Output messages recorded on logs
const (
	OutputSuccess      = "Action executed successfully"
	OutputConditionNot = "Condition not met"
	outputErrorPrefix  = "Error: "
)

// Log records one rule evaluation against a trigger
type Log struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	RuleID       uuid.UUID
	RuleName     string
	EntityType   EntityType
	EntityID     string
	TriggerEvent TriggerEvent
	ActionType   string
	Status       ExecutionStatus
	InputData    string
	OutputData   string
	ExecutedAt   time.Time
}

// NewLog starts a pending log for rule against trigger
func NewLog(rule *Rule, trigger Trigger) *Log {
	input := "{}"
	if trigger.Data != nil {
		if b, err := json.Marshal(trigger.Data); err == nil {
			input = string(b)
		}
	}
	return &Log{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     trigger.TenantID,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
		EntityType:   trigger.EntityType,
		EntityID:     trigger.EntityID,
		TriggerEvent: trigger.TriggerEvent,
		ActionType:   rule.ActionType,
		Status:       StatusPending,
		InputData:    input,
	}
}

// Succeed marks the action as executed
func (l *Log) Succeed() {
	l.finish(StatusSuccess, OutputSuccess)
}

// Skip marks the rule as not applicable
func (l *Log) Skip() {
	l.finish(StatusSkipped, OutputConditionNot)
}

// Fail records the action error
func (l *Log) Fail(err error) {
	l.finish(StatusFailed, outputErrorPrefix+err.Error())
}

func (l *Log) finish(status ExecutionStatus, output string) {
	l.Status = status
	l.OutputData = output
	l.ExecutedAt = time.Now()
}

// Trigger is an entity event fed to the engine
type Trigger struct {
	TenantID     uuid.UUID
	EntityType   EntityType
	EntityID     string
	TriggerEvent TriggerEvent
	Data         map[string]any
}
