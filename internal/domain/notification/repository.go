package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)

	// FindByUser returns the user's notifications newest first
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]Notification, error)

	// FindUnread returns SENT notifications of the user newest first
	FindUnread(ctx context.Context, tenantID, userID uuid.UUID) ([]Notification, error)
	CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)

	Save(ctx context.Context, n *Notification) error

	// MarkAllRead flips every unread notification of the user to READ
	MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID, at time.Time) (int64, error)

	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
