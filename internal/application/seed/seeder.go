package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	customerapp "github.com/crm/backend/internal/application/customer"
	salesapp "github.com/crm/backend/internal/application/sales"
	supportapp "github.com/crm/backend/internal/application/support"
	workflowapp "github.com/crm/backend/internal/application/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerCreator creates customers
type CustomerCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req customerapp.CreateCustomerRequest) (*customerapp.CustomerResponse, error)
}

// LeadCreator creates leads
type LeadCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, changedBy string, req customerapp.CreateLeadRequest) (*customerapp.LeadResponse, error)
}

// DealCreator creates deals
type DealCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req salesapp.CreateDealRequest) (*salesapp.DealResponse, error)
}

// TicketCreator creates tickets
type TicketCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req supportapp.CreateTicketRequest) (*supportapp.TicketResponse, error)
}

// RuleCreator creates workflow rules
type RuleCreator interface {
	CreateRule(ctx context.Context, tenantID uuid.UUID, createdBy string, req workflowapp.RuleRequest) (*workflowapp.RuleResponse, error)
}

// Counts is how many records of each kind to generate
type Counts struct {
	Customers int
	Leads     int
	Deals     int
	Tickets   int
}

// Result reports what a run created
type Result struct {
	Customers int
	Leads     int
	Deals     int
	Tickets   int
	Rules     int
	Failed    int
}

// Rows renders the result for a two column table
func (r Result) Rows() [][]string {
	return [][]string{
		{"customers", strconv.Itoa(r.Customers)},
		{"leads", strconv.Itoa(r.Leads)},
		{"deals", strconv.Itoa(r.Deals)},
		{"tickets", strconv.Itoa(r.Tickets)},
		{"workflow rules", strconv.Itoa(r.Rules)},
		{"failed", strconv.Itoa(r.Failed)},
	}
}

// Seeder writes generated data through the application services
type Seeder struct {
	customers CustomerCreator
	leads     LeadCreator
	deals     DealCreator
	tickets   TicketCreator
	rules     RuleCreator
	logger    *zap.Logger
}

// NewSeeder creates a seeder
func NewSeeder(customers CustomerCreator, leads LeadCreator, deals DealCreator, tickets TicketCreator, rules RuleCreator, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		customers: customers,
		leads:     leads,
		deals:     deals,
		tickets:   tickets,
		rules:     rules,
		logger:    logger,
	}
}

// SeedData generates customers and leads, then spreads deals and tickets
// across the new customers. Individual failures are counted and skipped;
// a cancelled context stops the run.
func (s *Seeder) SeedData(ctx context.Context, tenantID, actorID uuid.UUID, actor string, gen *Generator, counts Counts) (Result, error) {
	var res Result
	customerIDs := make([]uuid.UUID, 0, counts.Customers)

	for i := range counts.Customers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c, err := s.customers.Create(ctx, tenantID, actorID, gen.Customer(i))
		if err != nil {
			s.fail(&res, "customer", err)
			continue
		}
		customerIDs = append(customerIDs, c.ID)
		res.Customers++
	}

	for i := range counts.Leads {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.leads.Create(ctx, tenantID, actorID, actor, gen.Lead(i)); err != nil {
			s.fail(&res, "lead", err)
			continue
		}
		res.Leads++
	}

	if len(customerIDs) == 0 && (counts.Deals > 0 || counts.Tickets > 0) {
		return res, fmt.Errorf("deals and tickets need at least one customer")
	}

	for i := range counts.Deals {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.deals.Create(ctx, tenantID, actorID, gen.Deal(customerIDs[i%len(customerIDs)])); err != nil {
			s.fail(&res, "deal", err)
			continue
		}
		res.Deals++
	}

	for i := range counts.Tickets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.tickets.Create(ctx, tenantID, actorID, gen.Ticket(customerIDs[i%len(customerIDs)])); err != nil {
			s.fail(&res, "ticket", err)
			continue
		}
		res.Tickets++
	}

	s.logger.Info("seed data created",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("customers", res.Customers),
		zap.Int("leads", res.Leads),
		zap.Int("deals", res.Deals),
		zap.Int("tickets", res.Tickets),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// SeedRules creates every rule; the first failure aborts the import
func (s *Seeder) SeedRules(ctx context.Context, tenantID uuid.UUID, actor string, rules []workflowapp.RuleRequest) (Result, error) {
	var res Result
	for _, req := range rules {
		if _, err := s.rules.CreateRule(ctx, tenantID, actor, req); err != nil {
			return res, fmt.Errorf("rule %q: %w", req.Name, err)
		}
		res.Rules++
	}
	s.logger.Info("workflow rules imported", zap.String("tenant_id", tenantID.String()), zap.Int("rules", res.Rules))
	return res, nil
}

func (s *Seeder) fail(res *Result, kind string, err error) {
	res.Failed++
	s.logger.Warn("seed record rejected", zap.String("kind", kind), zap.Error(err))
}

func toJSON(v map[string]any) (string, error) {
	if len(v) == 0 {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
