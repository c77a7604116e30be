package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayloadTypeWorkflowTrigger tags payloads sent by rule actions
const PayloadTypeWorkflowTrigger = "WORKFLOW_TRIGGER"

// Notifier delivers workflow notifications
type Notifier interface {
	Send(ctx context.Context, tenantID uuid.UUID, payload map[string]any) (map[string]any, error)
}

// Engine evaluates matching rules against a trigger and runs their actions
type Engine struct {
	rules    workflow.RuleRepository
	logs     workflow.LogRepository
	notifier Notifier
	webhooks integration.WebhookCaller
	metrics  *Metrics
	logger   *zap.Logger
}

// NewEngine creates a workflow engine. A nil webhook caller makes
// CALL_WEBHOOK actions fail.
func NewEngine(
	rules workflow.RuleRepository,
	logs workflow.LogRepository,
	notifier Notifier,
	webhooks integration.WebhookCaller,
	metrics *Metrics,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rules:    rules,
		logs:     logs,
		notifier: notifier,
		webhooks: webhooks,
		metrics:  metrics,
		logger:   logger,
	}
}

// ProcessEvent runs every active rule matching the trigger, highest priority
// first, and returns one persisted log per rule
func (e *Engine) ProcessEvent(ctx context.Context, trigger workflow.Trigger) ([]workflow.Log, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "workflow", "ProcessEvent",
		telemetry.SpanAttrTenantID, trigger.TenantID.String(),
		telemetry.SpanAttrEntityType, string(trigger.EntityType),
		telemetry.SpanAttrEntityID, trigger.EntityID,
		telemetry.SpanAttrTriggerEvent, string(trigger.TriggerEvent),
	)
	defer span.End()

	rules, err := e.rules.FindMatching(ctx, trigger.TenantID, trigger.EntityType, trigger.TriggerEvent)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRuleCount, len(rules))

	logs := make([]workflow.Log, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		log := workflow.NewLog(rule, trigger)

		if !workflow.Evaluate(rule.ConditionExpression, trigger.Data) {
			log.Skip()
		} else if err := e.execute(ctx, rule, trigger); err != nil {
			e.logger.Warn("Workflow action failed",
				zap.String("rule_id", rule.ID.String()),
				zap.String("action_type", rule.ActionType),
				zap.Error(err))
			log.Fail(err)
		} else {
			log.Succeed()
		}

		if err := e.logs.Save(ctx, log); err != nil {
			e.logger.Error("Failed to save workflow log",
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err))
		}
		e.metrics.observe(string(log.Status))
		logs = append(logs, *log)
	}

	e.logger.Debug("Workflow event processed",
		zap.String("entity_type", string(trigger.EntityType)),
		zap.String("entity_id", trigger.EntityID),
		zap.String("trigger_event", string(trigger.TriggerEvent)),
		zap.Int("rules", len(rules)))
	return logs, nil
}

func (e *Engine) execute(ctx context.Context, rule *workflow.Rule, trigger workflow.Trigger) error {
	switch strings.ToUpper(rule.ActionType) {
	case workflow.ActionSendNotification, workflow.ActionSendEmail:
		if e.notifier == nil {
			return fmt.Errorf("failed to send notification: notifier not configured")
		}
		if _, err := e.notifier.Send(ctx, trigger.TenantID, actionPayload(rule, trigger)); err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
		return nil
	case workflow.ActionCallWebhook:
		return e.callWebhook(ctx, rule, trigger)
	default:
		return nil
	}
}

func (e *Engine) callWebhook(ctx context.Context, rule *workflow.Rule, trigger workflow.Trigger) error {
	if e.webhooks == nil {
		return fmt.Errorf("webhook integration not configured")
	}
	params := rule.Params()
	req := integration.WebhookRequest{
		Payload: actionPayload(rule, trigger),
	}
	req.URL, _ = params["url"].(string)
	req.Method, _ = params["method"].(string)
	if headers, ok := params["headers"].(map[string]any); ok {
		req.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			req.Headers[k] = fmt.Sprint(v)
		}
	}
	if err := req.Normalize(); err != nil {
		return err
	}

	resp, err := e.webhooks.Call(ctx, req)
	if err != nil {
		return fmt.Errorf("webhook call failed: %w", err)
	}
	if !resp.Successful() {
		return fmt.Errorf("webhook returned HTTP %d", resp.HTTPStatus)
	}
	return nil
}

func actionPayload(rule *workflow.Rule, trigger workflow.Trigger) map[string]any {
	data := trigger.Data
	if data == nil {
		data = map[string]any{}
	}
	return map[string]any{
		"type":         PayloadTypeWorkflowTrigger,
		"ruleName":     rule.Name,
		"entityType":   string(trigger.EntityType),
		"entityId":     trigger.EntityID,
		"actionParams": rule.Params(),
		"data":         data,
	}
}

// Trigger validates a manual trigger request and runs it
func (e *Engine) Trigger(ctx context.Context, tenantID uuid.UUID, req TriggerRequest) ([]LogResponse, error) {
	entityType, err := workflow.ParseEntityType(req.EntityType)
	if err != nil {
		return nil, err
	}
	event, err := workflow.ParseTriggerEvent(req.TriggerEvent)
	if err != nil {
		return nil, err
	}
	logs, err := e.ProcessEvent(ctx, workflow.Trigger{
		TenantID:     tenantID,
		EntityType:   entityType,
		EntityID:     req.EntityID,
		TriggerEvent: event,
		Data:         req.Data,
	})
	if err != nil {
		return nil, err
	}
	return ToLogResponses(logs), nil
}
