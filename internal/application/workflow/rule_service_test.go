package workflow

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRuleService_Rules(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()

	t.Run("create defaults to active", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)
		rules.On("Save", ctx, mock.AnythingOfType("*workflow.Rule")).Return(nil)

		resp, err := svc.CreateRule(ctx, tenant, "admin", RuleRequest{
			Name:         "Hot lead",
			EntityType:   "LEAD",
			TriggerEvent: "SCORE_CHANGED",
			ActionType:   "SEND_NOTIFICATION",
			Priority:     5,
		})
		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Equal(t, 5, resp.Priority)
		assert.Equal(t, "admin", resp.CreatedBy)
	})

	t.Run("create rejects blank name", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)

		_, err := svc.CreateRule(ctx, tenant, "admin", RuleRequest{Name: " ", EntityType: "LEAD", TriggerEvent: "CREATED", ActionType: "LOG_ONLY"})
		assert.Error(t, err)
		rules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("toggle", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)
		rule := newTestRule(t, tenant, "r", "", workflow.ActionLogOnly, "")
		rules.On("FindByIDForTenant", ctx, tenant, rule.ID).Return(&rule, nil)
		rules.On("Save", ctx, &rule).Return(nil)

		resp, err := svc.ToggleRule(ctx, tenant, rule.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("update", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)
		rule := newTestRule(t, tenant, "r", "", workflow.ActionLogOnly, "")
		rules.On("FindByIDForTenant", ctx, tenant, rule.ID).Return(&rule, nil)
		rules.On("Save", ctx, &rule).Return(nil)

		resp, err := svc.UpdateRule(ctx, tenant, rule.ID, RuleRequest{Name: "renamed", EntityType: "DEAL", TriggerEvent: "UPDATED", ActionType: "CALL_WEBHOOK"})
		require.NoError(t, err)
		assert.Equal(t, "renamed", resp.Name)
		assert.Equal(t, "DEAL", resp.EntityType)
	})

	t.Run("get missing", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)
		id := uuid.New()
		rules.On("FindByIDForTenant", ctx, tenant, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetRule(ctx, tenant, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list active", func(t *testing.T) {
		rules := new(MockRuleRepository)
		svc := NewRuleService(rules, nil, nil, nil)
		rules.On("FindActive", ctx, tenant).Return([]workflow.Rule{newTestRule(t, tenant, "a", "", "LOG_ONLY", "")}, nil)

		list, err := svc.ListActiveRules(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestRuleService_ActionsAndLogs(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()

	t.Run("create action", func(t *testing.T) {
		actions := new(MockActionRepository)
		svc := NewRuleService(nil, actions, nil, nil)
		actions.On("Save", ctx, mock.AnythingOfType("*workflow.Action")).Return(nil)

		resp, err := svc.CreateAction(ctx, tenant, ActionRequest{Name: "Ping CRM", Type: "call_webhook", PayloadTemplate: `{"id":"${entityId}"}`})
		require.NoError(t, err)
		assert.Equal(t, "CALL_WEBHOOK", resp.Type)
		assert.True(t, resp.Active)
	})

	t.Run("logs by entity", func(t *testing.T) {
		logs := &memoryLogRepository{}
		svc := NewRuleService(nil, nil, logs, nil)
		rule := newTestRule(t, tenant, "r", "", "LOG_ONLY", "")
		l := workflow.NewLog(&rule, workflow.Trigger{TenantID: tenant, EntityType: workflow.EntityLead, EntityID: "l1"})
		l.Succeed()
		require.NoError(t, logs.Save(ctx, l))

		list, err := svc.LogsByEntity(ctx, tenant, "lead", "l1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "SUCCESS", list[0].Status)

		byRule, err := svc.LogsByRule(ctx, tenant, rule.ID)
		require.NoError(t, err)
		assert.Len(t, byRule, 1)

		recent, err := svc.RecentLogs(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, recent, 1)

		_, err = svc.LogsByEntity(ctx, tenant, "order", "o1")
		assert.Error(t, err)
	})
}
