package marketing

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCampaignService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("draft with event", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		publisher := &recordingPublisher{}
		svc := NewCampaignService(repo, nil)
		svc.SetEventPublisher(publisher)
		repo.On("Save", ctx, mock.AnythingOfType("*marketing.Campaign")).Return(nil)

		budget := decimal.NewFromInt(2500)
		resp, err := svc.Create(ctx, tenantID, uuid.New(), CreateCampaignRequest{Name: "Spring launch", Type: "EMAIL", Budget: &budget})
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, []string{marketing.EventTypeCampaignCreated}, publisher.types)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := NewCampaignService(new(MockCampaignRepository), nil)
		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateCampaignRequest{Name: "x", StartDate: &start, EndDate: &end})
		assert.Error(t, err)
	})

	t.Run("negative budget", func(t *testing.T) {
		svc := NewCampaignService(new(MockCampaignRepository), nil)
		budget := decimal.NewFromInt(-1)
		_, err := svc.Create(ctx, tenantID, uuid.Nil, CreateCampaignRequest{Name: "x", Budget: &budget})
		assert.Error(t, err)
	})
}

func newTestCampaign(t *testing.T, tenantID uuid.UUID) *marketing.Campaign {
	t.Helper()
	c, err := marketing.NewCampaign(tenantID, marketing.CampaignDetails{Name: "Newsletter", Type: marketing.CampaignTypeEmail})
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestCampaignService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	c := newTestCampaign(t, tenantID)
	repo := new(MockCampaignRepository)
	publisher := &recordingPublisher{}
	svc := NewCampaignService(repo, nil)
	svc.SetEventPublisher(publisher)

	repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil).Once()

	resp, err := svc.UpdateStatus(ctx, tenantID, c.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)

	_, err = svc.UpdateStatus(ctx, tenantID, c.ID, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, []string{marketing.EventTypeCampaignStatusChanged}, publisher.types)
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestCampaignService_RecordMetrics(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	c := newTestCampaign(t, tenantID)
	repo := new(MockCampaignRepository)
	svc := NewCampaignService(repo, nil)
	repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	_, err := svc.RecordMetrics(ctx, tenantID, c.ID, RecordMetricsRequest{Sent: 200, Opened: 50})
	require.NoError(t, err)
	resp, err := svc.RecordMetrics(ctx, tenantID, c.ID, RecordMetricsRequest{Clicked: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(200), resp.SentCount)
	assert.InDelta(t, 25.0, resp.OpenRate, 0.001)
	assert.InDelta(t, 5.0, resp.ClickRate, 0.001)

	_, err = svc.RecordMetrics(ctx, tenantID, c.ID, RecordMetricsRequest{Sent: -1})
	assert.Error(t, err)
}

func TestTemplateService_Render(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	tpl, err := marketing.NewEmailTemplate(tenantID, marketing.EmailTemplateDetails{
		Name: "Welcome", Subject: "Hi ${firstName}", Body: "Welcome to ${company}, ${firstName}. ${unknown}",
	})
	require.NoError(t, err)

	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo)
	repo.On("FindByIDForTenant", ctx, tenantID, tpl.ID).Return(tpl, nil)

	out, err := svc.Render(ctx, tenantID, tpl.ID, map[string]string{"firstName": "Ada", "company": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", out.Subject)
	assert.Equal(t, "Welcome to Acme, Ada. ${unknown}", out.Body)
}

func TestTemplateService_CreateAndCategory(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	resp, err := svc.Create(ctx, tenantID, TemplateRequest{Name: "Promo", Category: "sales"})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	inactive := false
	resp, err = svc.Create(ctx, tenantID, TemplateRequest{Name: "Old", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = svc.ListByCategory(ctx, tenantID, " ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func newSegmentCustomer(t *testing.T, tenantID uuid.UUID, company, country string) customer.Customer {
	t.Helper()
	addr, err := valueobject.NewAddress("", "", "", country)
	require.NoError(t, err)
	c, err := customer.NewCustomer(tenantID, customer.CustomerDetails{
		FirstName: "Test", LastName: company, Email: uuid.NewString() + "@example.com", Company: company, Address: addr,
	})
	require.NoError(t, err)
	return *c
}

func TestSegmentService_Evaluate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	seg, err := marketing.NewSegment(tenantID, "UK Acme", "", "company=acme and country=UK")
	require.NoError(t, err)

	segments := new(MockSegmentRepository)
	customers := new(MockCustomerLister)
	svc := NewSegmentService(segments, customers)

	segments.On("FindByIDForTenant", ctx, tenantID, seg.ID).Return(seg, nil)
	segments.On("Save", ctx, seg).Return(nil)
	customers.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == evaluatePageSize
	})).Return([]customer.Customer{
		newSegmentCustomer(t, tenantID, "Acme", "UK"),
		newSegmentCustomer(t, tenantID, "ACME", "uk"),
		newSegmentCustomer(t, tenantID, "Acme", "FR"),
		newSegmentCustomer(t, tenantID, "Globex", "UK"),
	}, nil)

	resp, err := svc.Evaluate(ctx, tenantID, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.MemberCount)
	assert.Equal(t, int64(2), seg.MemberCount)
}

func TestSegmentService_CreateRejectsBadCriteria(t *testing.T) {
	svc := NewSegmentService(new(MockSegmentRepository), new(MockCustomerLister))
	_, err := svc.Create(context.Background(), uuid.New(), SegmentRequest{Name: "Broken", Criteria: "industry"})
	assert.Error(t, err)
}
