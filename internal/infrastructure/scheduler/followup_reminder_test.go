package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFollowupRepo struct {
	mock.Mock
}

func (m *mockFollowupRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Followup, error) {
	args := m.Called(ctx, tenantID, id)
	if f := args.Get(0); f != nil {
		return f.(*sales.Followup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFollowupRepo) FindByDeal(ctx context.Context, tenantID, dealID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID, dealID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *mockFollowupRepo) FindPending(ctx context.Context, tenantID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *mockFollowupRepo) FindPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]sales.Followup, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]sales.Followup), args.Error(1)
}

func (m *mockFollowupRepo) FindDueForReminder(ctx context.Context, at time.Time, limit int) ([]sales.Followup, error) {
	args := m.Called(ctx, at, limit)
	if f := args.Get(0); f != nil {
		return f.([]sales.Followup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFollowupRepo) Save(ctx context.Context, f *sales.Followup) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFollowupRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyFollowupDue(ctx context.Context, f *sales.Followup) error {
	return m.Called(ctx, f).Error(0)
}

func dueFollowup(t *testing.T, assignee *uuid.UUID, at time.Time) sales.Followup {
	t.Helper()
	f, err := sales.NewFollowup(uuid.New(), uuid.New(), sales.FollowupTypeCall, at, "call back", assignee)
	require.NoError(t, err)
	return *f
}

func TestFollowupReminderJob_Run(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	user := uuid.New()

	t.Run("notifies assignees and stamps every follow-up", func(t *testing.T) {
		repo := new(mockFollowupRepo)
		notifier := new(mockNotifier)
		assigned := dueFollowup(t, &user, now.Add(-time.Hour))
		unassigned := dueFollowup(t, nil, now.Add(-time.Minute))

		repo.On("FindDueForReminder", mock.Anything, now, 50).Return([]sales.Followup{assigned, unassigned}, nil)
		notifier.On("NotifyFollowupDue", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool { return f.ID == assigned.ID })).Return(nil).Once()
		repo.On("Save", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool {
			return f.ReminderSentAt != nil && f.ReminderSentAt.Equal(now)
		})).Return(nil).Twice()

		job := NewFollowupReminderJob(repo, notifier, 50, zap.NewNop())
		job.now = func() time.Time { return now }
		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, FollowupReminderJobName, job.Name())

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("one failure does not abort the batch", func(t *testing.T) {
		repo := new(mockFollowupRepo)
		notifier := new(mockNotifier)
		first := dueFollowup(t, &user, now.Add(-time.Hour))
		second := dueFollowup(t, &user, now.Add(-time.Minute))

		repo.On("FindDueForReminder", mock.Anything, now, defaultReminderBatchSize).Return([]sales.Followup{first, second}, nil)
		notifier.On("NotifyFollowupDue", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool { return f.ID == first.ID })).Return(errors.New("smtp down"))
		notifier.On("NotifyFollowupDue", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool { return f.ID == second.ID })).Return(nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool { return f.ID == second.ID })).Return(nil).Once()

		job := NewFollowupReminderJob(repo, notifier, 0, nil)
		job.now = func() time.Time { return now }
		err := job.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp down")

		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.MatchedBy(func(f *sales.Followup) bool { return f.ID == first.ID }))
	})

	t.Run("load failure", func(t *testing.T) {
		repo := new(mockFollowupRepo)
		repo.On("FindDueForReminder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		job := NewFollowupReminderJob(repo, new(mockNotifier), 10, nil)
		assert.ErrorContains(t, job.Run(context.Background()), "failed to load due follow-ups")
	})

	t.Run("nothing due", func(t *testing.T) {
		repo := new(mockFollowupRepo)
		repo.On("FindDueForReminder", mock.Anything, mock.Anything, 10).Return([]sales.Followup{}, nil)
		job := NewFollowupReminderJob(repo, new(mockNotifier), 10, nil)
		assert.NoError(t, job.Run(context.Background()))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
