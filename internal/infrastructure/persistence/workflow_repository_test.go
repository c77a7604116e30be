package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T, tenantID uuid.UUID, name string, priority int, active bool) *workflow.Rule {
	t.Helper()
	r, err := workflow.NewRule(tenantID, workflow.RuleDetails{
		Name:         name,
		EntityType:   workflow.EntityLead,
		TriggerEvent: workflow.TriggerCreated,
		ActionType:   workflow.ActionLogOnly,
		Priority:     priority,
		Active:       &active,
	}, "admin")
	require.NoError(t, err)
	return r
}

func TestGormWorkflowRuleRepository_FindMatching(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWorkflowRuleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Now().Add(-time.Hour)

	older := newTestRule(t, tenantID, "older", 5, true)
	older.CreatedAt = base
	newer := newTestRule(t, tenantID, "newer", 5, true)
	newer.CreatedAt = base.Add(time.Minute)
	top := newTestRule(t, tenantID, "top", 10, true)
	inactive := newTestRule(t, tenantID, "inactive", 99, false)
	for _, r := range []*workflow.Rule{newer, top, older, inactive} {
		require.NoError(t, repo.Save(ctx, r))
	}

	rules, err := repo.FindMatching(ctx, tenantID, workflow.EntityLead, workflow.TriggerCreated)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, []string{"top", "older", "newer"}, []string{rules[0].Name, rules[1].Name, rules[2].Name})

	none, err := repo.FindMatching(ctx, tenantID, workflow.EntityDeal, workflow.TriggerCreated)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormWorkflowLogRepository(t *testing.T) {
	db := setupTestDB(t)
	rules := NewGormWorkflowRuleRepository(db)
	logs := NewGormWorkflowLogRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	rule := newTestRule(t, tenantID, "log it", 0, true)
	require.NoError(t, rules.Save(ctx, rule))

	entityID := uuid.NewString()
	for i := 0; i < 3; i++ {
		l := workflow.NewLog(rule, workflow.Trigger{
			TenantID:     tenantID,
			EntityType:   workflow.EntityLead,
			EntityID:     entityID,
			TriggerEvent: workflow.TriggerCreated,
			Data:         map[string]any{"score": i},
		})
		l.ExecutedAt = time.Now().Add(time.Duration(i) * time.Second)
		l.Succeed()
		require.NoError(t, logs.Save(ctx, l))
	}

	recent, err := logs.FindRecent(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].ExecutedAt.After(recent[1].ExecutedAt))

	byEntity, err := logs.FindByEntity(ctx, tenantID, workflow.EntityLead, entityID)
	require.NoError(t, err)
	assert.Len(t, byEntity, 3)

	byRule, err := logs.FindByRule(ctx, tenantID, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusSuccess, byRule[0].Status)
}

func TestGormReportRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	report, err := analytics.NewReport(tenantID, "Q1 sales", analytics.ReportTypeSales, "", "alice")
	require.NoError(t, err)
	require.NoError(t, report.SetData(map[string]any{"totalDeals": 3}))
	require.NoError(t, repo.Save(ctx, report))

	byType, err := repo.FindByType(ctx, tenantID, analytics.ReportTypeSales)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.EqualValues(t, 3, byType[0].DataMap()["totalDeals"])

	none, err := repo.FindByType(ctx, tenantID, analytics.ReportTypeTickets)
	require.NoError(t, err)
	assert.Empty(t, none)
}
