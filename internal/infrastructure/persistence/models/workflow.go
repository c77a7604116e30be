package models

import (
	"time"

	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// WorkflowRuleModel is the persistence model for workflow rules
type WorkflowRuleModel struct {
	TenantAggregateModel
	Name                string                `gorm:"type:varchar(200);not null"`
	Description         string                `gorm:"type:text"`
	EntityType          workflow.EntityType   `gorm:"type:varchar(20);not null;index:idx_rule_match"`
	TriggerEvent        workflow.TriggerEvent `gorm:"type:varchar(30);not null;index:idx_rule_match"`
	ConditionExpression string                `gorm:"type:text"`
	ActionType          string                `gorm:"type:varchar(50);not null"`
	ActionParams        string                `gorm:"type:text"`
	Active              bool                  `gorm:"not null;index"`
	Priority            int                   `gorm:"not null;default:0"`
	CreatedByName       string                `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (WorkflowRuleModel) TableName() string {
	return "workflow_rules"
}

// ToDomain converts the model to a domain Rule
func (m *WorkflowRuleModel) ToDomain() *workflow.Rule {
	return &workflow.Rule{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		EntityType:          m.EntityType,
		TriggerEvent:        m.TriggerEvent,
		ConditionExpression: m.ConditionExpression,
		ActionType:          m.ActionType,
		ActionParams:        m.ActionParams,
		Active:              m.Active,
		Priority:            m.Priority,
		CreatedByName:       m.CreatedByName,
	}
}

// WorkflowRuleModelFromDomain creates a persistence model from a domain Rule
func WorkflowRuleModelFromDomain(r *workflow.Rule) *WorkflowRuleModel {
	m := &WorkflowRuleModel{
		Name:                r.Name,
		Description:         r.Description,
		EntityType:          r.EntityType,
		TriggerEvent:        r.TriggerEvent,
		ConditionExpression: r.ConditionExpression,
		ActionType:          r.ActionType,
		ActionParams:        r.ActionParams,
		Active:              r.Active,
		Priority:            r.Priority,
		CreatedByName:       r.CreatedByName,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// WorkflowActionModel is the persistence model for reusable workflow actions
type WorkflowActionModel struct {
	TenantModel
	Name            string `gorm:"type:varchar(200);not null"`
	Description     string `gorm:"type:text"`
	Type            string `gorm:"type:varchar(50);not null"`
	TargetService   string `gorm:"type:varchar(100)"`
	TargetEndpoint  string `gorm:"type:varchar(500)"`
	PayloadTemplate string `gorm:"type:text"`
	Active          bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WorkflowActionModel) TableName() string {
	return "workflow_actions"
}

// ToDomain converts the model to a domain Action
func (m *WorkflowActionModel) ToDomain() *workflow.Action {
	return &workflow.Action{
		BaseEntity:      m.BaseModel.ToDomain(),
		TenantID:        m.TenantID,
		Name:            m.Name,
		Description:     m.Description,
		Type:            m.Type,
		TargetService:   m.TargetService,
		TargetEndpoint:  m.TargetEndpoint,
		PayloadTemplate: m.PayloadTemplate,
		Active:          m.Active,
	}
}

// WorkflowActionModelFromDomain creates a persistence model from a domain Action
func WorkflowActionModelFromDomain(a *workflow.Action) *WorkflowActionModel {
	m := &WorkflowActionModel{
		Name:            a.Name,
		Description:     a.Description,
		Type:            a.Type,
		TargetService:   a.TargetService,
		TargetEndpoint:  a.TargetEndpoint,
		PayloadTemplate: a.PayloadTemplate,
		Active:          a.Active,
	}
	m.FromDomainTenantEntity(a.BaseEntity, a.TenantID)
	return m
}

// WorkflowLogModel is the persistence model for rule execution logs
type WorkflowLogModel struct {
	TenantModel
	RuleID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	RuleName     string                   `gorm:"type:varchar(200)"`
	EntityType   workflow.EntityType      `gorm:"type:varchar(20);index:idx_log_entity"`
	EntityID     string                   `gorm:"type:varchar(100);index:idx_log_entity"`
	TriggerEvent workflow.TriggerEvent    `gorm:"type:varchar(30)"`
	ActionType   string                   `gorm:"type:varchar(50)"`
	Status       workflow.ExecutionStatus `gorm:"type:varchar(20);not null"`
	InputData    string                   `gorm:"type:text"`
	OutputData   string                   `gorm:"type:text"`
	ExecutedAt   time.Time                `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (WorkflowLogModel) TableName() string {
	return "workflow_logs"
}

// ToDomain converts the model to a domain Log
func (m *WorkflowLogModel) ToDomain() *workflow.Log {
	return &workflow.Log{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		RuleID:       m.RuleID,
		RuleName:     m.RuleName,
		EntityType:   m.EntityType,
		EntityID:     m.EntityID,
		TriggerEvent: m.TriggerEvent,
		ActionType:   m.ActionType,
		Status:       m.Status,
		InputData:    m.InputData,
		OutputData:   m.OutputData,
		ExecutedAt:   m.ExecutedAt,
	}
}

// WorkflowLogModelFromDomain creates a persistence model from a domain Log
func WorkflowLogModelFromDomain(l *workflow.Log) *WorkflowLogModel {
	m := &WorkflowLogModel{
		RuleID:       l.RuleID,
		RuleName:     l.RuleName,
		EntityType:   l.EntityType,
		EntityID:     l.EntityID,
		TriggerEvent: l.TriggerEvent,
		ActionType:   l.ActionType,
		Status:       l.Status,
		InputData:    l.InputData,
		OutputData:   l.OutputData,
		ExecutedAt:   l.ExecutedAt,
	}
	m.FromDomainTenantEntity(l.BaseEntity, l.TenantID)
	return m
}
