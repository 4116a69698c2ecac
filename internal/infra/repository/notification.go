package repository

import (
	"context"
	"encoding/json"

	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository deliberately takes the pool rather than a DBTX:
// notifications are a best-effort side channel and must not ride in the
// mutation's transaction.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const insertNotification = `
	INSERT INTO notifications
		(id, recipient_user_id, type, title, message, priority, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return infra.WrapRepoErr("failed to encode notification metadata", err)
	}

	_, err = r.pool.Exec(ctx, insertNotification,
		n.ID, n.RecipientUserID, n.Type, n.Title, n.Message, n.Priority, metadata, n.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int32) ([]notification.Notification, error) {
	const q = `
		SELECT id, recipient_user_id, type, title, message, priority, is_read, metadata, created_at
		FROM notifications
		WHERE recipient_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, recipientID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var result []notification.Notification
	for rows.Next() {
		var (
			n        notification.Notification
			metadata []byte
		)
		if err := rows.Scan(&n.ID, &n.RecipientUserID, &n.Type, &n.Title, &n.Message, &n.Priority, &n.IsRead, &metadata, &n.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification row", err)
		}
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, infra.WrapRepoErr("failed to decode notification metadata", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification rows", err)
	}

	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_user_id = $2`

	tag, err := r.pool.Exec(ctx, q, notificationID, recipientID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("notification not found", infra.KindNotFound)
	}
	return nil
}
