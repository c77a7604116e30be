package sales

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FollowupType is the channel of a scheduled follow-up
type FollowupType string

const (
	FollowupTypeCall    FollowupType = "CALL"
	FollowupTypeEmail   FollowupType = "EMAIL"
	FollowupTypeMeeting FollowupType = "MEETING"
	FollowupTypeDemo    FollowupType = "DEMO"
	FollowupTypeOther   FollowupType = "OTHER"
)

// ParseFollowupType normalizes a type; empty yields OTHER
func ParseFollowupType(s string) (FollowupType, error) {
	t := FollowupType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case "":
		return FollowupTypeOther, nil
	case FollowupTypeCall, FollowupTypeEmail, FollowupTypeMeeting, FollowupTypeDemo, FollowupTypeOther:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_FOLLOWUP_TYPE", "Invalid follow-up type: "+s)
}

// Followup is a scheduled touchpoint on a deal
type Followup struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	DealID         uuid.UUID
	Type           FollowupType
	Notes          string
	ScheduledAt    time.Time
	Completed      bool
	CompletedAt    *time.Time
	AssignedTo     *uuid.UUID
	ReminderSentAt *time.Time
}

// NewFollowup schedules a follow-up on a deal
func NewFollowup(tenantID, dealID uuid.UUID, followupType FollowupType, scheduledAt time.Time, notes string, assignedTo *uuid.UUID) (*Followup, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Follow-up must reference a deal")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	return &Followup{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		DealID:      dealID,
		Type:        followupType,
		Notes:       strings.TrimSpace(notes),
		ScheduledAt: scheduledAt,
		AssignedTo:  assignedTo,
	}, nil
}

// Complete marks the follow-up done; completing twice keeps the first time
func (f *Followup) Complete() {
	if f.Completed {
		return
	}
	now := time.Now()
	f.Completed = true
	f.CompletedAt = &now
	f.UpdatedAt = now
}

// IsDue reports whether a reminder should be sent at the given time
func (f *Followup) IsDue(at time.Time) bool {
	return !f.Completed && f.ReminderSentAt == nil && !f.ScheduledAt.After(at)
}

// MarkReminderSent records that the assignee has been reminded
func (f *Followup) MarkReminderSent(at time.Time) {
	f.ReminderSentAt = &at
	f.UpdatedAt = at
}
