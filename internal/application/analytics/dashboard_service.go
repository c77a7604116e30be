// Package analytics serves the tenant dashboard and saved reports.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates per-tenant counters from the other contexts
type DashboardService struct {
	customers analytics.CustomerCounter
	leads     analytics.LeadCounter
	deals     analytics.DealCounter
	tickets   analytics.TicketCounter
	cache     cache.DashboardCache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewDashboardService creates a dashboard service. A nil cache or a zero
// ttl computes every request.
func NewDashboardService(
	customers analytics.CustomerCounter,
	leads analytics.LeadCounter,
	deals analytics.DealCounter,
	tickets analytics.TicketCounter,
	dashboardCache cache.DashboardCache,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		customers: customers,
		leads:     leads,
		deals:     deals,
		tickets:   tickets,
		cache:     dashboardCache,
		ttl:       ttl,
		logger:    logger,
	}
}

type section struct {
	key   string
	fetch func(ctx context.Context, tenantID uuid.UUID) (any, error)
}

func (s *DashboardService) sections() []section {
	count := func(f func(context.Context, uuid.UUID) (int64, error)) func(context.Context, uuid.UUID) (any, error) {
		return func(ctx context.Context, id uuid.UUID) (any, error) { return f(ctx, id) }
	}
	return []section{
		{analytics.SectionTotalCustomers, count(s.customers.CountCustomers)},
		{analytics.SectionTotalLeads, count(s.leads.CountLeads)},
		{analytics.SectionTotalDeals, count(s.deals.CountDeals)},
		{analytics.SectionClosedWonDeals, count(s.deals.CountClosedWonDeals)},
		{analytics.SectionPipelineValue, func(ctx context.Context, id uuid.UUID) (any, error) {
			return s.deals.OpenPipelineValue(ctx, id)
		}},
		{analytics.SectionTotalTickets, count(s.tickets.CountTickets)},
		{analytics.SectionOpenTickets, count(s.tickets.CountOpenTickets)},
	}
}

// Dashboard returns the tenant dashboard. A section whose source fails is
// reported as "unavailable" and the snapshot is then left out of the cache.
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID) (analytics.Dashboard, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	dashboard := make(analytics.Dashboard)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, sec := range s.sections() {
		g.Go(func() error {
			value, err := sec.fetch(gctx, tenantID)
			if err != nil {
				s.logger.Warn("Dashboard section unavailable",
					zap.String("tenant_id", tenantID.String()),
					zap.String("section", sec.key),
					zap.Error(err))
				value = analytics.Unavailable
			}
			mu.Lock()
			dashboard[sec.key] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if s.cache != nil && s.ttl > 0 && dashboard.Complete() {
		if err := s.cache.Set(ctx, tenantID, dashboard, s.ttl); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return dashboard, nil
}

// Invalidate drops the cached snapshot of a tenant
func (s *DashboardService) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, tenantID)
}
