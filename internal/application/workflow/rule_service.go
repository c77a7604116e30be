// Package workflow manages automation rules and runs them against entity events.
package workflow

import (
	"context"

	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentLogLimit caps the recent log listing
const recentLogLimit = 50

// RuleService manages rules, action definitions and execution logs
type RuleService struct {
	rules   workflow.RuleRepository
	actions workflow.ActionRepository
	logs    workflow.LogRepository
	logger  *zap.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(
	rules workflow.RuleRepository,
	actions workflow.ActionRepository,
	logs workflow.LogRepository,
	logger *zap.Logger,
) *RuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{rules: rules, actions: actions, logs: logs, logger: logger}
}

// CreateRule stores a new rule
func (s *RuleService) CreateRule(ctx context.Context, tenantID uuid.UUID, createdBy string, req RuleRequest) (*RuleResponse, error) {
	rule, err := workflow.NewRule(tenantID, req.details(), createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("Workflow rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("entity_type", string(rule.EntityType)),
		zap.String("trigger_event", string(rule.TriggerEvent)))
	response := ToRuleResponse(rule)
	return &response, nil
}

// ListRules returns every rule of the tenant
func (s *RuleService) ListRules(ctx context.Context, tenantID uuid.UUID) ([]RuleResponse, error) {
	rules, err := s.rules.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToRuleResponses(rules), nil
}

// ListActiveRules returns the active rules of the tenant
func (s *RuleService) ListActiveRules(ctx context.Context, tenantID uuid.UUID) ([]RuleResponse, error) {
	rules, err := s.rules.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToRuleResponses(rules), nil
}

// GetRule returns a rule by ID
func (s *RuleService) GetRule(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}

// UpdateRule replaces the rule definition
func (s *RuleService) UpdateRule(ctx context.Context, tenantID, id uuid.UUID, req RuleRequest) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}

// ToggleRule flips the active flag
func (s *RuleService) ToggleRule(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.rules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rule.Toggle()
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("Workflow rule toggled",
		zap.String("rule_id", id.String()),
		zap.Bool("active", rule.Active))
	response := ToRuleResponse(rule)
	return &response, nil
}

// DeleteRule removes a rule
func (s *RuleService) DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.rules.DeleteForTenant(ctx, tenantID, id)
}

// CreateAction stores an action definition
func (s *RuleService) CreateAction(ctx context.Context, tenantID uuid.UUID, req ActionRequest) (*ActionResponse, error) {
	action, err := workflow.NewAction(tenantID, workflow.ActionDetails{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		TargetService:   req.TargetService,
		TargetEndpoint:  req.TargetEndpoint,
		PayloadTemplate: req.PayloadTemplate,
		Active:          req.Active,
	})
	if err != nil {
		return nil, err
	}
	if err := s.actions.Save(ctx, action); err != nil {
		return nil, err
	}
	response := toActionResponse(action)
	return &response, nil
}

// ListActions returns the action definitions of the tenant
func (s *RuleService) ListActions(ctx context.Context, tenantID uuid.UUID) ([]ActionResponse, error) {
	actions, err := s.actions.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToActionResponses(actions), nil
}

// DeleteAction removes an action definition
func (s *RuleService) DeleteAction(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.actions.DeleteForTenant(ctx, tenantID, id)
}

// RecentLogs returns the newest execution logs
func (s *RuleService) RecentLogs(ctx context.Context, tenantID uuid.UUID) ([]LogResponse, error) {
	logs, err := s.logs.FindRecent(ctx, tenantID, recentLogLimit)
	if err != nil {
		return nil, err
	}
	return ToLogResponses(logs), nil
}

// LogsByRule returns the executions of one rule
func (s *RuleService) LogsByRule(ctx context.Context, tenantID, ruleID uuid.UUID) ([]LogResponse, error) {
	logs, err := s.logs.FindByRule(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	return ToLogResponses(logs), nil
}

// LogsByEntity returns the executions triggered by one entity
func (s *RuleService) LogsByEntity(ctx context.Context, tenantID uuid.UUID, entityType, entityID string) ([]LogResponse, error) {
	t, err := workflow.ParseEntityType(entityType)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.FindByEntity(ctx, tenantID, t, entityID)
	if err != nil {
		return nil, err
	}
	return ToLogResponses(logs), nil
}
