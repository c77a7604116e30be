package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDeal(t *testing.T, tenantID, customerID uuid.UUID, stage sales.DealStage) *sales.Deal {
	t.Helper()
	d, err := sales.NewDeal(tenantID, sales.DealDetails{
		Title:      "Enterprise licence",
		Value:      decimal.NewFromInt(5000),
		Stage:      stage,
		CustomerID: customerID,
		Priority:   sales.PriorityHigh,
	})
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestDealService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()
	value := decimal.NewFromInt(1200)

	t.Run("creates deal with defaults", func(t *testing.T) {
		repo := new(MockDealRepository)
		customers := new(MockCustomerDirectory)
		publisher := &recordingPublisher{}
		svc := NewDealService(repo, customers, nil)
		svc.SetEventPublisher(publisher)

		customers.On("Exists", ctx, tenantID, customerID).Return(true, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*sales.Deal")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.New(), CreateDealRequest{
			Title: "Renewal", Value: &value, CustomerID: customerID,
		})
		require.NoError(t, err)
		assert.Equal(t, "NEW", resp.Stage)
		assert.Equal(t, "MEDIUM", resp.Priority)
		assert.True(t, value.Equal(resp.Value))
		assert.Equal(t, []string{sales.EventTypeDealCreated}, publisher.types)
		repo.AssertExpectations(t)
	})

	t.Run("unknown customer", func(t *testing.T) {
		repo := new(MockDealRepository)
		customers := new(MockCustomerDirectory)
		svc := NewDealService(repo, customers, nil)
		customers.On("Exists", ctx, tenantID, customerID).Return(false, nil)

		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateDealRequest{Title: "x", CustomerID: customerID})
		assert.True(t, shared.IsNotFound(err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid priority", func(t *testing.T) {
		svc := NewDealService(new(MockDealRepository), new(MockCustomerDirectory), nil)
		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateDealRequest{Title: "x", CustomerID: customerID, Priority: "URGENT"})
		assert.Error(t, err)
	})
}

func TestDealService_UpdateStage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("moves and publishes", func(t *testing.T) {
		deal := newTestDeal(t, tenantID, uuid.New(), sales.DealStageProposal)
		repo := new(MockDealRepository)
		publisher := &recordingPublisher{}
		svc := NewDealService(repo, new(MockCustomerDirectory), nil)
		svc.SetEventPublisher(publisher)

		repo.On("FindByIDForTenant", ctx, tenantID, deal.ID).Return(deal, nil)
		repo.On("Save", ctx, deal).Return(nil)

		resp, err := svc.UpdateStage(ctx, tenantID, deal.ID, "CLOSED_WON")
		require.NoError(t, err)
		assert.Equal(t, "CLOSED_WON", resp.Stage)
		assert.NotNil(t, resp.ClosedAt)
		assert.Equal(t, []string{sales.EventTypeDealStageChanged}, publisher.types)
	})

	t.Run("same stage is a no-op", func(t *testing.T) {
		deal := newTestDeal(t, tenantID, uuid.New(), sales.DealStageProposal)
		repo := new(MockDealRepository)
		svc := NewDealService(repo, new(MockCustomerDirectory), nil)
		repo.On("FindByIDForTenant", ctx, tenantID, deal.ID).Return(deal, nil)

		_, err := svc.UpdateStage(ctx, tenantID, deal.ID, "PROPOSAL")
		require.NoError(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid stage", func(t *testing.T) {
		svc := NewDealService(new(MockDealRepository), new(MockCustomerDirectory), nil)
		_, err := svc.UpdateStage(ctx, tenantID, uuid.New(), "LOST")
		assert.Error(t, err)
	})
}

func TestDealService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := uuid.New()

	t.Run("stage change publishes both events", func(t *testing.T) {
		deal := newTestDeal(t, tenantID, customerID, sales.DealStageNew)
		repo := new(MockDealRepository)
		customers := new(MockCustomerDirectory)
		publisher := &recordingPublisher{}
		svc := NewDealService(repo, customers, nil)
		svc.SetEventPublisher(publisher)

		repo.On("FindByIDForTenant", ctx, tenantID, deal.ID).Return(deal, nil)
		repo.On("Save", ctx, deal).Return(nil)

		_, err := svc.Update(ctx, tenantID, deal.ID, UpdateDealRequest{Title: "Bigger", CustomerID: customerID, Stage: "QUALIFIED"})
		require.NoError(t, err)
		assert.Equal(t, []string{sales.EventTypeDealUpdated, sales.EventTypeDealStageChanged}, publisher.types)
		customers.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("moving to unknown customer fails", func(t *testing.T) {
		deal := newTestDeal(t, tenantID, customerID, sales.DealStageNew)
		repo := new(MockDealRepository)
		customers := new(MockCustomerDirectory)
		svc := NewDealService(repo, customers, nil)
		other := uuid.New()

		repo.On("FindByIDForTenant", ctx, tenantID, deal.ID).Return(deal, nil)
		customers.On("Exists", ctx, tenantID, other).Return(false, nil)

		_, err := svc.Update(ctx, tenantID, deal.ID, UpdateDealRequest{Title: "x", CustomerID: other})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestDealService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockDealRepository)
	svc := NewDealService(repo, new(MockCustomerDirectory), nil)
	deal := newTestDeal(t, tenantID, uuid.New(), sales.DealStageNew)

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.Filters["stage"] == "NEW" && f.OrderBy == "created_at"
	})
	repo.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]sales.Deal{*deal}, nil)
	repo.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(21), nil)

	items, total, err := svc.List(ctx, tenantID, DealListFilter{Page: 2, Stage: "NEW"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(21), total)
}

func TestDealService_Search(t *testing.T) {
	svc := NewDealService(new(MockDealRepository), new(MockCustomerDirectory), nil)
	_, err := svc.Search(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDealService_Pipeline(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockDealRepository)
	svc := NewDealService(repo, new(MockCustomerDirectory), nil)

	repo.On("PipelineSummary", ctx, tenantID).Return([]sales.StageSummary{
		{Stage: sales.DealStageQualified, Count: 2, TotalValue: decimal.NewFromInt(300)},
		{Stage: sales.DealStageNegotiation, Count: 1, TotalValue: decimal.NewFromFloat(99.5)},
		{Stage: sales.DealStageClosedWon, Count: 4, TotalValue: decimal.NewFromInt(10000)},
	}, nil)

	t.Run("all stages in pipeline order", func(t *testing.T) {
		rows, err := svc.Pipeline(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, rows, len(sales.AllDealStages()))
		assert.Equal(t, "NEW", rows[0].Stage)
		assert.Zero(t, rows[0].Count)
		assert.Equal(t, int64(2), rows[1].Count)
	})

	t.Run("open pipeline value skips closed stages", func(t *testing.T) {
		v, err := svc.OpenPipelineValue(ctx, tenantID)
		require.NoError(t, err)
		assert.InDelta(t, 399.5, v, 0.001)
	})
}

func TestDealService_Counters(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockDealRepository)
	svc := NewDealService(repo, new(MockCustomerDirectory), nil)

	repo.On("CountForTenant", ctx, tenantID, shared.Filter{}).Return(int64(7), nil)
	repo.On("CountByStage", ctx, tenantID, sales.DealStageClosedWon).Return(int64(3), nil)

	n, err := svc.CountDeals(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = svc.CountClosedWonDeals(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	repo.On("CountByStage", ctx, tenantID, sales.DealStageNew).Return(int64(0), errors.New("db down"))
	_, err = svc.CountByStage(ctx, tenantID, "NEW")
	assert.EqualError(t, err, "db down")
}
