//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/crm/backend/internal/infrastructure/migration"
	"github.com/crm/backend/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations to it
func newPostgresDB(t *testing.T) (*gorm.DB, *migration.Migrator) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("crm_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if raw, err := db.DB(); err == nil {
			_ = raw.Close()
		}
		_ = m.Close()
	})
	return db, m
}

func TestPostgres_Migrations(t *testing.T) {
	_, m := newPostgresDB(t)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 3, version)

	// every down script must undo its up script
	require.NoError(t, m.Down())
	require.NoError(t, m.Up())
}

func TestPostgres_CustomerRepository(t *testing.T) {
	db, _ := newPostgresDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	c, err := customer.NewCustomer(tenantA, customer.CustomerDetails{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	t.Run("tenant scoped reads", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantA, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", found.Email)

		_, err = repo.FindByIDForTenant(ctx, tenantB, c.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("email uniqueness is per tenant", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, tenantA, "JANE@example.com", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, tenantB, "jane@example.com", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("case insensitive name search", func(t *testing.T) {
		found, err := repo.SearchByName(ctx, tenantA, "JAN")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestPostgres_DealAggregates(t *testing.T) {
	db, _ := newPostgresDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	c, err := customer.NewCustomer(tenantID, customer.CustomerDetails{FirstName: "A", LastName: "B", Email: "ab@example.com"})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, c))

	deals := NewGormDealRepository(db)
	for _, d := range []struct {
		value string
		stage sales.DealStage
	}{
		{"1000.50", sales.DealStageNew},
		{"250", sales.DealStageNegotiation},
		{"9000", sales.DealStageClosedWon},
		{"40", sales.DealStageClosedLost},
	} {
		deal, err := sales.NewDeal(tenantID, sales.DealDetails{
			Title: "deal " + string(d.stage), CustomerID: c.ID, Value: decimal.RequireFromString(d.value), Stage: d.stage,
		})
		require.NoError(t, err)
		require.NoError(t, deals.Save(ctx, deal))
	}

	total, err := deals.CountDeals(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	won, err := deals.CountClosedWonDeals(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, won)

	pipeline, err := deals.OpenPipelineValue(ctx, tenantID)
	require.NoError(t, err)
	assert.InDelta(t, 1250.50, pipeline, 0.001)
}

func TestPostgres_WorkflowMatching(t *testing.T) {
	db, _ := newPostgresDB(t)
	repo := NewGormWorkflowRuleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	inactive := false

	for _, d := range []workflow.RuleDetails{
		{Name: "low", EntityType: workflow.EntityLead, TriggerEvent: workflow.TriggerCreated, ActionType: workflow.ActionLogOnly, Priority: 1},
		{Name: "high", EntityType: workflow.EntityLead, TriggerEvent: workflow.TriggerCreated, ActionType: workflow.ActionLogOnly, Priority: 9},
		{Name: "off", EntityType: workflow.EntityLead, TriggerEvent: workflow.TriggerCreated, ActionType: workflow.ActionLogOnly, Active: &inactive},
		{Name: "deal", EntityType: workflow.EntityDeal, TriggerEvent: workflow.TriggerCreated, ActionType: workflow.ActionLogOnly},
	} {
		rule, err := workflow.NewRule(tenantID, d, "tester")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rule))
	}

	rules, err := repo.FindMatching(ctx, tenantID, workflow.EntityLead, workflow.TriggerCreated)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "high", rules[0].Name)
	assert.Equal(t, "low", rules[1].Name)
}
