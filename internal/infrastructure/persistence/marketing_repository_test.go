package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCampaignRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCampaignRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	spring, err := marketing.NewCampaign(tenantID, marketing.CampaignDetails{Name: "Spring promo", Type: marketing.CampaignTypeEmail, Budget: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	webinar, err := marketing.NewCampaign(tenantID, marketing.CampaignDetails{Name: "Product webinar", Type: marketing.CampaignTypeWebinar})
	require.NoError(t, err)
	require.NoError(t, spring.ChangeStatus(marketing.CampaignStatusActive))
	require.NoError(t, spring.RecordMetrics(100, 40, 10))
	require.NoError(t, repo.Save(ctx, spring))
	require.NoError(t, repo.Save(ctx, webinar))

	found, err := repo.FindByIDForTenant(ctx, tenantID, spring.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), found.SentCount)
	assert.True(t, decimal.NewFromInt(1500).Equal(found.Budget))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = marketing.CampaignStatusActive
	active, err := repo.FindAllForTenant(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, spring.ID, active[0].ID)

	count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormEmailTemplateRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormEmailTemplateRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	inactive := false

	welcome, err := marketing.NewEmailTemplate(tenantID, marketing.EmailTemplateDetails{Name: "Welcome", Subject: "Hi ${name}", Body: "Welcome ${name}", Category: "onboarding"})
	require.NoError(t, err)
	old, err := marketing.NewEmailTemplate(tenantID, marketing.EmailTemplateDetails{Name: "Old", Subject: "Old", Body: "Old", Category: "onboarding", Active: &inactive})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, welcome))
	require.NoError(t, repo.Save(ctx, old))

	active, err := repo.FindActive(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, welcome.ID, active[0].ID)

	byCategory, err := repo.FindByCategory(ctx, tenantID, "onboarding")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func TestGormSegmentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSegmentRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	segment, err := marketing.NewSegment(tenantID, "Berlin", "customers in Berlin", "city=Berlin")
	require.NoError(t, err)
	segment.SetMemberCount(12)
	require.NoError(t, repo.Save(ctx, segment))

	found, err := repo.FindByIDForTenant(ctx, tenantID, segment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), found.MemberCount)
	assert.Equal(t, "city=Berlin", found.Criteria)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, segment.ID))
	all, err := repo.FindAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
