package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// NotificationRepo persists rows of the 'notifications' table.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts an unread notification for a provider.
func (r *NotificationRepo) Create(ctx context.Context, providerID uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (content, user_id) VALUES (?,?)",
		content, providerID)
	return err
}

// ListForProvider returns up to limit notifications for a provider,
// unread first, newest first within each group.
func (r *NotificationRepo) ListForProvider(ctx context.Context, providerID uint64, limit int) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, content, user_id, `read`, created_at FROM notifications WHERE user_id=? ORDER BY `read` ASC, created_at DESC LIMIT ?",
		providerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Content, &n.UserID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips a notification to read and returns the updated row.
// Marking an already-read notification is a no-op success; an unknown
// id returns ErrNotificationNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) (model.Notification, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET `read`=TRUE WHERE id=?", id); err != nil {
		return model.Notification{}, err
	}
	var n model.Notification
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, content, user_id, `read`, created_at FROM notifications WHERE id=? LIMIT 1",
		id).Scan(&n.ID, &n.Content, &n.UserID, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, ErrNotificationNotFound
		}
		return model.Notification{}, err
	}
	return n, nil
}
