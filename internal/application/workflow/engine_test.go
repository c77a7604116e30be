package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T, tenant uuid.UUID, name, condition, actionType, params string) workflow.Rule {
	t.Helper()
	r, err := workflow.NewRule(tenant, workflow.RuleDetails{
		Name:                name,
		EntityType:          workflow.EntityLead,
		TriggerEvent:        workflow.TriggerScoreChanged,
		ConditionExpression: condition,
		ActionType:          actionType,
		ActionParams:        params,
	}, "admin")
	require.NoError(t, err)
	return *r
}

type engineFixture struct {
	rules    *MockRuleRepository
	logs     *memoryLogRepository
	notifier *recordingNotifier
	webhooks *stubWebhookCaller
	metrics  *Metrics
	engine   *Engine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		rules:    new(MockRuleRepository),
		logs:     &memoryLogRepository{},
		notifier: &recordingNotifier{},
		webhooks: &stubWebhookCaller{status: 200},
		metrics:  NewMetrics(prometheus.NewRegistry()),
	}
	f.engine = NewEngine(f.rules, f.logs, f.notifier, f.webhooks, f.metrics, nil)
	return f
}

func TestEngine_ProcessEvent(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()
	trigger := workflow.Trigger{
		TenantID:     tenant,
		EntityType:   workflow.EntityLead,
		EntityID:     "lead-1",
		TriggerEvent: workflow.TriggerScoreChanged,
		Data:         map[string]any{"score": 85},
	}

	t.Run("condition met sends notification", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Hot lead", `{"field":"score","operator":">=","value":80}`, "send_notification", `{"userId":"u-1"}`)
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, workflow.StatusSuccess, logs[0].Status)
		assert.Equal(t, workflow.OutputSuccess, logs[0].OutputData)
		assert.JSONEq(t, `{"score":85}`, logs[0].InputData)
		assert.False(t, logs[0].ExecutedAt.IsZero())
		assert.Len(t, f.logs.saved, 1)

		require.Len(t, f.notifier.payloads, 1)
		p := f.notifier.payloads[0]
		assert.Equal(t, PayloadTypeWorkflowTrigger, p["type"])
		assert.Equal(t, "Hot lead", p["ruleName"])
		assert.Equal(t, "LEAD", p["entityType"])
		assert.Equal(t, "lead-1", p["entityId"])
		assert.Equal(t, map[string]any{"userId": "u-1"}, p["actionParams"])
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.executions.WithLabelValues("SUCCESS")))
	})

	t.Run("condition not met is skipped", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Very hot", `{"field":"score","operator":">","value":90}`, "SEND_EMAIL", "")
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSkipped, logs[0].Status)
		assert.Equal(t, workflow.OutputConditionNot, logs[0].OutputData)
		assert.Empty(t, f.notifier.payloads)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.executions.WithLabelValues("SKIPPED")))
	})

	t.Run("notifier error fails the log", func(t *testing.T) {
		f := newEngineFixture()
		f.notifier.err = errors.New("smtp down")
		rule := newTestRule(t, tenant, "Notify", "", workflow.ActionSendNotification, "")
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusFailed, logs[0].Status)
		assert.Equal(t, "Error: failed to send notification: smtp down", logs[0].OutputData)
	})

	t.Run("unknown action is a no-op success", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Custom", "", "ASSIGN_TERRITORY", "")
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSuccess, logs[0].Status)
	})

	t.Run("nil data skips conditional rules", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Cond", `{"field":"score","operator":">=","value":1}`, workflow.ActionLogOnly, "")
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		noData := trigger
		noData.Data = nil
		logs, err := f.engine.ProcessEvent(ctx, noData)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSkipped, logs[0].Status)
		assert.Equal(t, "{}", logs[0].InputData)
	})

	t.Run("keeps repository order", func(t *testing.T) {
		f := newEngineFixture()
		first := newTestRule(t, tenant, "first", "", workflow.ActionLogOnly, "")
		second := newTestRule(t, tenant, "second", "", workflow.ActionLogOnly, "")
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{first, second}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "first", logs[0].RuleName)
		assert.Equal(t, "second", logs[1].RuleName)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newEngineFixture()
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return(nil, errors.New("db down"))

		_, err := f.engine.ProcessEvent(ctx, trigger)
		assert.Error(t, err)
	})
}

func TestEngine_CallWebhook(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()
	trigger := workflow.Trigger{TenantID: tenant, EntityType: workflow.EntityLead, EntityID: "l1", TriggerEvent: workflow.TriggerScoreChanged, Data: map[string]any{"score": 10}}

	t.Run("posts payload", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Hook", "", workflow.ActionCallWebhook, `{"url":"https://hooks.example.com/x","headers":{"X-Token":"abc"}}`)
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSuccess, logs[0].Status)
		require.Len(t, f.webhooks.requests, 1)
		req := f.webhooks.requests[0]
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "abc", req.Headers["X-Token"])
		assert.Equal(t, PayloadTypeWorkflowTrigger, req.Payload.(map[string]any)["type"])
	})

	t.Run("non-2xx fails", func(t *testing.T) {
		f := newEngineFixture()
		f.webhooks.status = 502
		rule := newTestRule(t, tenant, "Hook", "", workflow.ActionCallWebhook, `{"url":"https://hooks.example.com/x"}`)
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusFailed, logs[0].Status)
		assert.Contains(t, logs[0].OutputData, "HTTP 502")
	})

	t.Run("missing url fails", func(t *testing.T) {
		f := newEngineFixture()
		rule := newTestRule(t, tenant, "Hook", "", workflow.ActionCallWebhook, `{}`)
		f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

		logs, err := f.engine.ProcessEvent(ctx, trigger)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusFailed, logs[0].Status)
		assert.Empty(t, f.webhooks.requests)
	})
}

func TestEngine_Trigger(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()
	f := newEngineFixture()
	f.rules.On("FindMatching", ctx, tenant, workflow.EntityDeal, workflow.TriggerCreated).Return([]workflow.Rule{}, nil)

	logs, err := f.engine.Trigger(ctx, tenant, TriggerRequest{EntityType: "deal", EntityID: "d1", TriggerEvent: "created"})
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = f.engine.Trigger(ctx, tenant, TriggerRequest{EntityType: "ORDER", EntityID: "o1", TriggerEvent: "CREATED"})
	assert.Error(t, err)
}

func TestEventHandler(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()
	leadID := uuid.New()
	f := newEngineFixture()
	handler := NewEventHandler(f.engine, nil)

	assert.Contains(t, handler.EventTypes(), customer.EventTypeLeadScoreChanged)
	assert.NotContains(t, handler.EventTypes(), customer.EventTypeCustomerCreated)

	rule := newTestRule(t, tenant, "Hot lead", `{"field":"score","operator":">=","value":80}`, workflow.ActionLogOnly, "")
	f.rules.On("FindMatching", ctx, tenant, workflow.EntityLead, workflow.TriggerScoreChanged).Return([]workflow.Rule{rule}, nil)

	event := &customer.LeadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(customer.EventTypeLeadScoreChanged, customer.AggregateTypeLead, leadID, tenant),
		LeadID:          leadID,
		Score:           92,
	}
	require.NoError(t, handler.Handle(ctx, event))
	require.Len(t, f.logs.saved, 1)
	assert.Equal(t, leadID.String(), f.logs.saved[0].EntityID)
	assert.Equal(t, workflow.StatusSuccess, f.logs.saved[0].Status)

	t.Run("unmapped events are ignored", func(t *testing.T) {
		other := customer.NewCustomerCreatedEvent(&customer.Customer{})
		require.NoError(t, handler.Handle(ctx, other))
		assert.Len(t, f.logs.saved, 1)
	})
}
