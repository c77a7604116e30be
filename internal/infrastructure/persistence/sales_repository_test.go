package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeal(t *testing.T, tenantID, customerID uuid.UUID, title string, value int64) *sales.Deal {
	t.Helper()
	d, err := sales.NewDeal(tenantID, sales.DealDetails{
		Title:      title,
		Value:      decimal.NewFromInt(value),
		CustomerID: customerID,
	})
	require.NoError(t, err)
	return d
}

func TestGormDealRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDealRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()

	open := newTestDeal(t, tenantID, customerID, "Website redesign", 1000)
	big := newTestDeal(t, tenantID, customerID, "Enterprise license", 5000)
	won := newTestDeal(t, tenantID, uuid.New(), "Support renewal", 700)
	require.NoError(t, won.MoveToStage(sales.DealStageClosedWon))
	for _, d := range []*sales.Deal{open, big, won} {
		require.NoError(t, repo.Save(ctx, d))
	}

	t.Run("sums open pipeline value", func(t *testing.T) {
		value, err := repo.OpenPipelineValue(ctx, tenantID)
		require.NoError(t, err)
		assert.InDelta(t, 6000.0, value, 0.001)
	})

	t.Run("counts won deals", func(t *testing.T) {
		count, err := repo.CountClosedWonDeals(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		total, err := repo.CountDeals(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("summarizes every stage", func(t *testing.T) {
		summary, err := repo.PipelineSummary(ctx, tenantID)
		require.NoError(t, err)
		assert.Len(t, summary, len(sales.AllDealStages()))
		for _, s := range summary {
			switch s.Stage {
			case sales.DealStageNew:
				assert.Equal(t, int64(2), s.Count)
				assert.True(t, decimal.NewFromInt(6000).Equal(s.TotalValue))
			case sales.DealStageClosedWon:
				assert.Equal(t, int64(1), s.Count)
			}
		}
	})

	t.Run("filters by customer and searches titles", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["customer_id"] = customerID
		deals, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, deals, 2)

		found, err := repo.SearchByTitle(ctx, tenantID, "LICENSE")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, big.ID, found[0].ID)
	})

	t.Run("persists closed timestamp", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, won.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.ClosedAt)
	})
}

func TestGormFollowupRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFollowupRepository(db)
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()
	now := time.Now()

	due, err := sales.NewFollowup(tenantA, uuid.New(), sales.FollowupTypeCall, now.Add(-time.Hour), "call back", nil)
	require.NoError(t, err)
	otherDue, err := sales.NewFollowup(tenantB, uuid.New(), sales.FollowupTypeEmail, now.Add(-2*time.Hour), "send quote", nil)
	require.NoError(t, err)
	future, err := sales.NewFollowup(tenantA, uuid.New(), sales.FollowupTypeMeeting, now.Add(time.Hour), "demo", nil)
	require.NoError(t, err)
	reminded, err := sales.NewFollowup(tenantA, uuid.New(), sales.FollowupTypeCall, now.Add(-time.Hour), "already", nil)
	require.NoError(t, err)
	reminded.MarkReminderSent(now)
	for _, f := range []*sales.Followup{due, otherDue, future, reminded} {
		require.NoError(t, repo.Save(ctx, f))
	}

	t.Run("finds due follow-ups across tenants", func(t *testing.T) {
		list, err := repo.FindDueForReminder(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, otherDue.ID, list[0].ID)
		assert.Equal(t, due.ID, list[1].ID)
	})

	t.Run("respects limit", func(t *testing.T) {
		list, err := repo.FindDueForReminder(ctx, now, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("completed follow-ups are not pending", func(t *testing.T) {
		due.Complete()
		require.NoError(t, repo.Save(ctx, due))

		pending, err := repo.FindPending(ctx, tenantA)
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})
}

func TestGormOpportunityRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOpportunityRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	likely, err := sales.NewOpportunity(tenantID, sales.OpportunityDetails{Name: "Likely", Amount: decimal.NewFromInt(100), Probability: 80})
	require.NoError(t, err)
	unlikely, err := sales.NewOpportunity(tenantID, sales.OpportunityDetails{Name: "Unlikely", Amount: decimal.NewFromInt(100), Probability: 20})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, likely))
	require.NoError(t, repo.Save(ctx, unlikely))

	high, err := repo.FindHighProbability(ctx, tenantID, sales.DefaultHighProbability)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, likely.ID, high[0].ID)

	count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
