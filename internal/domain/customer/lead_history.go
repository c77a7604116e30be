package customer

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadHistoryField names the lead attribute a history row tracks
type LeadHistoryField string

const (
	LeadHistoryCreated LeadHistoryField = "CREATED"
	LeadHistoryStatus  LeadHistoryField = "STATUS"
	LeadHistoryScore   LeadHistoryField = "SCORE"
	LeadHistoryNote    LeadHistoryField = "NOTE"
)

// LeadHistory is an append-only audit row for a lead
type LeadHistory struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	LeadID       uuid.UUID
	FieldChanged LeadHistoryField
	OldValue     string
	NewValue     string
	ChangedBy    string
	ChangedAt    time.Time
}

// NewLeadHistory records one change made by changedBy
func NewLeadHistory(lead *Lead, change LeadChange, changedBy string) *LeadHistory {
	h := &LeadHistory{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     lead.TenantID,
		LeadID:       lead.ID,
		FieldChanged: change.Field,
		OldValue:     change.OldValue,
		NewValue:     change.NewValue,
		ChangedBy:    changedBy,
	}
	h.ChangedAt = h.CreatedAt
	return h
}

// NewLeadCreatedHistory records the creation of a lead with its initial status
func NewLeadCreatedHistory(lead *Lead, changedBy string) *LeadHistory {
	return NewLeadHistory(lead, LeadChange{Field: LeadHistoryCreated, NewValue: string(lead.Status)}, changedBy)
}
