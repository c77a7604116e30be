package handler

import (
	"net/http"
	"testing"

	workflowapp "github.com/crm/backend/internal/application/workflow"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWorkflowEngine(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	db := testutil.NewSQLiteDB(t)
	rules := persistence.NewGormWorkflowRuleRepository(db)
	logs := persistence.NewGormWorkflowLogRepository(db)
	svc := workflowapp.NewRuleService(rules, persistence.NewGormWorkflowActionRepository(db), logs, zap.NewNop())
	// no notifier: notification actions fail
	engine := workflowapp.NewEngine(rules, logs, nil, nil, nil, zap.NewNop())
	h := NewWorkflowHandler(svc, engine)

	r := testutil.NewEngine(asUser(testutil.TestTenantID(), "ops"))
	g := r.Group("/workflows")
	g.POST("/rules", h.CreateRule)
	g.GET("/rules", h.ListRules)
	g.GET("/rules/:id", h.GetRule)
	g.PUT("/rules/:id", h.UpdateRule)
	g.PATCH("/rules/:id/toggle", h.ToggleRule)
	g.DELETE("/rules/:id", h.DeleteRule)
	g.POST("/actions", h.CreateAction)
	g.GET("/actions", h.ListActions)
	g.DELETE("/actions/:id", h.DeleteAction)
	g.GET("/logs", h.RecentLogs)
	g.GET("/logs/rule/:id", h.LogsByRule)
	g.GET("/logs/entity/:entity_type/:entity_id", h.LogsByEntity)
	g.POST("/trigger", h.Trigger)
	return r
}

func createRule(t *testing.T, engine http.Handler, req workflowapp.RuleRequest) workflowapp.RuleResponse {
	t.Helper()
	w := testutil.DoJSON(t, engine, http.MethodPost, "/workflows/rules", req)
	return testutil.AssertSuccess[workflowapp.RuleResponse](t, w, http.StatusCreated)
}

func trigger(t *testing.T, engine http.Handler, score int) []workflowapp.LogResponse {
	t.Helper()
	w := testutil.DoJSON(t, engine, http.MethodPost, "/workflows/trigger", workflowapp.TriggerRequest{
		EntityType:   "LEAD",
		EntityID:     "lead-1",
		TriggerEvent: "SCORE_CHANGED",
		Data:         map[string]any{"score": score},
	})
	return testutil.AssertSuccess[[]workflowapp.LogResponse](t, w, http.StatusOK)
}

func statuses(logs []workflowapp.LogResponse) []string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Status)
	}
	return out
}

func TestWorkflowHandler_RuleLifecycle(t *testing.T) {
	engine := newWorkflowEngine(t)

	rule := createRule(t, engine, workflowapp.RuleRequest{
		Name: "log hot leads", EntityType: "LEAD", TriggerEvent: "SCORE_CHANGED", ActionType: "LOG_ONLY",
	})
	assert.True(t, rule.Active)
	assert.Equal(t, "ops", rule.CreatedBy)

	t.Run("rejects unknown entity types", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPost, "/workflows/rules", workflowapp.RuleRequest{
			Name: "x", EntityType: "ORDER", TriggerEvent: "CREATED", ActionType: "LOG_ONLY",
		})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("update and toggle", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPut, "/workflows/rules/"+rule.ID.String(), workflowapp.RuleRequest{
			Name: "renamed", EntityType: "LEAD", TriggerEvent: "SCORE_CHANGED", ActionType: "LOG_ONLY", Priority: 5,
		})
		updated := testutil.AssertSuccess[workflowapp.RuleResponse](t, w, http.StatusOK)
		assert.Equal(t, "renamed", updated.Name)
		assert.Equal(t, 5, updated.Priority)

		w = testutil.DoJSON(t, engine, http.MethodPatch, "/workflows/rules/"+rule.ID.String()+"/toggle", nil)
		assert.False(t, testutil.AssertSuccess[workflowapp.RuleResponse](t, w, http.StatusOK).Active)
		assert.Empty(t, trigger(t, engine, 99))

		w = testutil.DoJSON(t, engine, http.MethodPatch, "/workflows/rules/"+rule.ID.String()+"/toggle", nil)
		assert.True(t, testutil.AssertSuccess[workflowapp.RuleResponse](t, w, http.StatusOK).Active)
	})

	t.Run("delete", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodDelete, "/workflows/rules/"+rule.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.DoJSON(t, engine, http.MethodGet, "/workflows/rules/"+rule.ID.String(), nil)
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}

func TestWorkflowHandler_Trigger(t *testing.T) {
	engine := newWorkflowEngine(t)

	hot := createRule(t, engine, workflowapp.RuleRequest{
		Name:                "hot",
		EntityType:          "LEAD",
		TriggerEvent:        "SCORE_CHANGED",
		ConditionExpression: `{"field":"score","operator":">=","value":80}`,
		ActionType:          "LOG_ONLY",
		Priority:            10,
	})
	createRule(t, engine, workflowapp.RuleRequest{
		Name:         "notify",
		EntityType:   "LEAD",
		TriggerEvent: "SCORE_CHANGED",
		ActionType:   "SEND_NOTIFICATION",
		ActionParams: `{"recipient":"sales@example.com"}`,
		Priority:     1,
	})
	createRule(t, engine, workflowapp.RuleRequest{
		Name: "other event", EntityType: "LEAD", TriggerEvent: "CREATED", ActionType: "LOG_ONLY",
	})

	t.Run("priority order and outcomes", func(t *testing.T) {
		logs := trigger(t, engine, 90)
		require.Len(t, logs, 2)
		assert.Equal(t, "hot", logs[0].RuleName)
		assert.Equal(t, []string{"SUCCESS", "FAILED"}, statuses(logs))
	})

	t.Run("condition not met is skipped", func(t *testing.T) {
		assert.Equal(t, []string{"SKIPPED", "FAILED"}, statuses(trigger(t, engine, 10)))
	})

	t.Run("logs are queryable", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodGet, "/workflows/logs/rule/"+hot.ID.String(), nil)
		assert.Len(t, testutil.AssertSuccess[[]workflowapp.LogResponse](t, w, http.StatusOK), 2)

		w = testutil.DoJSON(t, engine, http.MethodGet, "/workflows/logs/entity/LEAD/lead-1", nil)
		assert.Len(t, testutil.AssertSuccess[[]workflowapp.LogResponse](t, w, http.StatusOK), 4)

		w = testutil.DoJSON(t, engine, http.MethodGet, "/workflows/logs", nil)
		assert.Len(t, testutil.AssertSuccess[[]workflowapp.LogResponse](t, w, http.StatusOK), 4)
	})

	t.Run("rejects bad triggers", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPost, "/workflows/trigger", workflowapp.TriggerRequest{
			EntityType: "LEAD", TriggerEvent: "CREATED",
		})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}

func TestWorkflowHandler_Actions(t *testing.T) {
	engine := newWorkflowEngine(t)

	w := testutil.DoJSON(t, engine, http.MethodPost, "/workflows/actions", workflowapp.ActionRequest{
		Name: "notify sales", Type: "SEND_NOTIFICATION",
	})
	action := testutil.AssertSuccess[workflowapp.ActionResponse](t, w, http.StatusCreated)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/workflows/actions", nil)
	assert.Len(t, testutil.AssertSuccess[[]workflowapp.ActionResponse](t, w, http.StatusOK), 1)

	w = testutil.DoJSON(t, engine, http.MethodDelete, "/workflows/actions/"+action.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/workflows/actions", nil)
	assert.Empty(t, testutil.AssertSuccess[[]workflowapp.ActionResponse](t, w, http.StatusOK))
}
