package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/user"
	stylist_errors "stylist-backend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *PostgresNotificationRepository) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	var notifications []notification.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return stylist_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAsSent(ctx context.Context, notificationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"is_sent": true,
			"sent_at": sql.NullTime{Time: time.Now(), Valid: true},
		}).Error
}

func (r *PostgresNotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&notification.Notification{}, "created_at < ? AND is_read = true", cutoff)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *PostgresNotificationRepository) UpsertDeviceToken(ctx context.Context, t *user.DeviceToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "is_active", "last_used_at"}),
		}).
		Create(t).Error
}

func (r *PostgresNotificationRepository) GetActiveDeviceTokens(ctx context.Context, userID uuid.UUID) ([]user.DeviceToken, error) {
	var tokens []user.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *PostgresNotificationRepository) DeactivateDeviceTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&user.DeviceToken{}).
		Where("token IN ?", tokens).
		Update("is_active", false).Error
}

func (r *PostgresNotificationRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (user.NotificationPreferences, error) {
	var p user.NotificationPreferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.NotificationPreferences{}, stylist_errors.ErrNotFound
		}
		return user.NotificationPreferences{}, err
	}
	return p, nil
}

func (r *PostgresNotificationRepository) UpsertPreferences(ctx context.Context, p *user.NotificationPreferences) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

// GetTrendingSubscribers returns users who opted into trending-outfit
// notifications.
func (r *PostgresNotificationRepository) GetTrendingSubscribers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Joins("JOIN notification_preferences ON notification_preferences.user_id = users.id").
		Where("notification_preferences.trending_outfits = true AND users.is_active = true").
		Preload("Preferences").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
