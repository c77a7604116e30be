package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// FollowupReminderJobName identifies the reminder job
const FollowupReminderJobName = "followup-reminder"

const defaultReminderBatchSize = 100

// ReminderNotifier delivers a reminder for one due follow-up
type ReminderNotifier interface {
	NotifyFollowupDue(ctx context.Context, f *sales.Followup) error
}

// FollowupReminderJob notifies assignees of due follow-ups and stamps
// ReminderSentAt so each follow-up is reminded once
type FollowupReminderJob struct {
	repo      sales.FollowupRepository
	notifier  ReminderNotifier
	logger    *zap.Logger
	batchSize int
	now       func() time.Time
}

// NewFollowupReminderJob creates the job
func NewFollowupReminderJob(repo sales.FollowupRepository, notifier ReminderNotifier, batchSize int, logger *zap.Logger) *FollowupReminderJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = defaultReminderBatchSize
	}
	return &FollowupReminderJob{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Name implements Job
func (j *FollowupReminderJob) Name() string {
	return FollowupReminderJobName
}

// Run processes one batch. A failing follow-up is logged and skipped; the
// returned error joins every item failure.
func (j *FollowupReminderJob) Run(ctx context.Context) error {
	now := j.now()
	due, err := j.repo.FindDueForReminder(ctx, now, j.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load due follow-ups: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	var errs []error
	sent := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		f := &due[i]
		if err := j.remind(ctx, f, now); err != nil {
			j.logger.Warn("follow-up reminder failed",
				zap.String("followup_id", f.ID.String()),
				zap.String("tenant_id", f.TenantID.String()),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}

	j.logger.Info("follow-up reminders processed",
		zap.Int("due", len(due)),
		zap.Int("sent", sent),
		zap.Int("failed", len(due)-sent))
	return errors.Join(errs...)
}

func (j *FollowupReminderJob) remind(ctx context.Context, f *sales.Followup, now time.Time) error {
	if f.AssignedTo != nil {
		if err := j.notifier.NotifyFollowupDue(ctx, f); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
	}
	f.MarkReminderSent(now)
	if err := j.repo.Save(ctx, f); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
