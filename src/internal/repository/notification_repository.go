package repository

import (
	"context"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type NotificationRepository struct {
	DB mysql.DBInterface
}

func NewNotificationRepository(db mysql.DBInterface) *NotificationRepository {
	return &NotificationRepository{
		DB: db,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications
			(id, user_id, title, message, type, is_read, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.IsRead,
		notification.Metadata,
		notification.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`
	if err := db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, err
	}

	return count, nil
}
