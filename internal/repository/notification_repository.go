package repository

import (
	"context"
	"database/sql"
	"time"

	"quiz-system/internal/apperrors"
	"quiz-system/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Content,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to count notifications", err)
	}

	query := `
		SELECT id, user_id, type, title, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to get notifications", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Type,
			&notification.Title,
			&notification.Content,
			&notification.IsRead,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, 0, apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to scan notification", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, total, rows.Err()
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to mark notification as read", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read update result", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "notification %s not found", notificationID)
	}
	return nil
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, notificationID, userID string) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to delete notification", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.KindPersistenceFailure, "failed to read delete result", err)
	}
	if rows == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "notification %s not found", notificationID)
	}
	return nil
}
