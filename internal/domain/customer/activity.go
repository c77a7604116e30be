package customer

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityType is the kind of interaction logged against a customer or lead
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "CALL"
	ActivityTypeEmail   ActivityType = "EMAIL"
	ActivityTypeMeeting ActivityType = "MEETING"
	ActivityTypeNote    ActivityType = "NOTE"
	ActivityTypeTask    ActivityType = "TASK"
)

// ParseActivityType normalizes and validates an activity type
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote, ActivityTypeTask:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_ACTIVITY_TYPE", "Invalid activity type: "+s)
}

// CallDirection is the direction of a call activity
type CallDirection string

const (
	CallDirectionInbound  CallDirection = "INBOUND"
	CallDirectionOutbound CallDirection = "OUTBOUND"
)

// Activity is a logged interaction (call, email, meeting...)
type Activity struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	Type            ActivityType
	Description     string
	CustomerID      *uuid.UUID
	LeadID          *uuid.UUID
	PerformedBy     string
	Phone           string
	DurationSeconds int
	Outcome         string
	Direction       CallDirection
	RecordingURL    string
	StartTime       time.Time
}

// ActivityInput holds the fields needed to log an activity
type ActivityInput struct {
	Type            ActivityType
	Description     string
	CustomerID      *uuid.UUID
	LeadID          *uuid.UUID
	PerformedBy     string
	Phone           string
	DurationSeconds int
	Outcome         string
	Direction       CallDirection
	RecordingURL    string
	StartTime       *time.Time
}

// NewActivity creates an activity; StartTime defaults to now
func NewActivity(tenantID uuid.UUID, in ActivityInput) (*Activity, error) {
	if in.CustomerID == nil && in.LeadID == nil {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Activity must reference a customer or a lead")
	}
	if in.DurationSeconds < 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Duration cannot be negative")
	}
	direction := CallDirection(strings.ToUpper(strings.TrimSpace(string(in.Direction))))
	if direction != "" && direction != CallDirectionInbound && direction != CallDirectionOutbound {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be INBOUND or OUTBOUND")
	}

	a := &Activity{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		Type:            in.Type,
		Description:     strings.TrimSpace(in.Description),
		CustomerID:      in.CustomerID,
		LeadID:          in.LeadID,
		PerformedBy:     in.PerformedBy,
		Phone:           in.Phone,
		DurationSeconds: in.DurationSeconds,
		Outcome:         in.Outcome,
		Direction:       direction,
		RecordingURL:    in.RecordingURL,
	}
	if in.StartTime != nil {
		a.StartTime = *in.StartTime
	} else {
		a.StartTime = a.CreatedAt
	}
	return a, nil
}
