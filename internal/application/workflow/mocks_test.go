package workflow

import (
	"context"
	"sync"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRuleRepository is a mock implementation of workflow.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workflow.Rule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.Rule, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]workflow.Rule, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Rule), args.Error(1)
}

func (m *MockRuleRepository) FindMatching(ctx context.Context, tenantID uuid.UUID, entityType workflow.EntityType, trigger workflow.TriggerEvent) ([]workflow.Rule, error) {
	args := m.Called(ctx, tenantID, entityType, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Rule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *workflow.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockActionRepository is a mock implementation of workflow.ActionRepository
type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]workflow.Action, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Action), args.Error(1)
}

func (m *MockActionRepository) Save(ctx context.Context, action *workflow.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockActionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// memoryLogRepository keeps saved logs for assertions
type memoryLogRepository struct {
	mu    sync.Mutex
	saved []workflow.Log
}

func (r *memoryLogRepository) Save(_ context.Context, log *workflow.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, *log)
	return nil
}

func (r *memoryLogRepository) FindRecent(_ context.Context, _ uuid.UUID, limit int) ([]workflow.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) > limit {
		return r.saved[:limit], nil
	}
	return r.saved, nil
}

func (r *memoryLogRepository) FindByRule(_ context.Context, _ uuid.UUID, ruleID uuid.UUID) ([]workflow.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workflow.Log
	for _, l := range r.saved {
		if l.RuleID == ruleID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memoryLogRepository) FindByEntity(_ context.Context, _ uuid.UUID, entityType workflow.EntityType, entityID string) ([]workflow.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workflow.Log
	for _, l := range r.saved {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	payloads []map[string]any
	err      error
}

func (n *recordingNotifier) Send(_ context.Context, _ uuid.UUID, payload map[string]any) (map[string]any, error) {
	n.payloads = append(n.payloads, payload)
	if n.err != nil {
		return nil, n.err
	}
	return map[string]any{"status": "SENT"}, nil
}

type stubWebhookCaller struct {
	requests []integration.WebhookRequest
	status   int
	err      error
}

func (c *stubWebhookCaller) Call(_ context.Context, req integration.WebhookRequest) (*integration.WebhookResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return &integration.WebhookResponse{HTTPStatus: c.status}, nil
}
