package persistence

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/notification"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForTenant finds a notification by ID within a tenant
func (r *GormNotificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's notifications newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_user_id = ?", tenantID, userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

// FindUnread returns SENT notifications of the user newest first
func (r *GormNotificationRepository) FindUnread(ctx context.Context, tenantID, userID uuid.UUID) ([]notification.Notification, error) {
	return r.find(r.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_user_id = ? AND status = ?", tenantID, userID, notification.StatusSent).
		Order("created_at DESC"))
}

// CountUnread counts SENT notifications of the user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("tenant_id = ? AND recipient_user_id = ? AND status = ?", tenantID, userID, notification.StatusSent).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(models.NotificationModelFromDomain(n)).Error
}

// MarkAllRead flips every unread notification of the user to READ
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("tenant_id = ? AND recipient_user_id = ? AND status = ?", tenantID, userID, notification.StatusSent).
		Updates(map[string]any{
			"status":     notification.StatusRead,
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// DeleteForTenant deletes a notification within a tenant
func (r *GormNotificationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.NotificationModel{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormNotificationRepository) find(query *gorm.DB) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	notifications := make([]notification.Notification, len(rows))
	for i := range rows {
		notifications[i] = *rows[i].ToDomain()
	}
	return notifications, nil
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
