package repositories

import (
	"context"
	"database/sql"

	"tradeBack/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := `
INSERT INTO notifications (user_id, kind, message, link, is_read, created_at)
VALUES (?, ?, ?, ?, false, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query, n.UserID, n.Kind, n.Message, n.Link)
	if err != nil {
		return models.Notification{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Notification{}, err
	}
	n.ID = int(id)
	return n, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	query := `
SELECT id, user_id, kind, message, link, is_read, created_at
FROM notifications
WHERE user_id = ?
ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags the notification as read for its owner only.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = ? AND user_id = ?`,
		notificationID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// GetPushTokens returns the registered device tokens for a user.
func (r *NotificationRepository) GetPushTokens(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM push_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// SavePushToken registers a device token, replacing a stale owner.
func (r *NotificationRepository) SavePushToken(ctx context.Context, userID int, token string) error {
	query := `
INSERT INTO push_tokens (user_id, token, created_at)
VALUES (?, ?, NOW())
ON DUPLICATE KEY UPDATE user_id = VALUES(user_id)
	`
	_, err := r.DB.ExecContext(ctx, query, userID, token)
	return err
}
