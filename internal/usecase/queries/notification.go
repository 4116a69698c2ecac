package queries

import (
	"context"

	"relief-ledger/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationReader interface {
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int32) ([]notification.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
}

type NotificationQueries interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int32) ([]NotificationView, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type notificationQueriesImpl struct {
	reader NotificationReader
}

func NewNotificationQueries(reader NotificationReader) NotificationQueries {
	return &notificationQueriesImpl{reader: reader}
}

func (q *notificationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, limit int32) ([]NotificationView, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.reader.ListByRecipient(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, len(rows))
	for i, n := range rows {
		views[i] = NotificationView{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Priority:  string(n.Priority),
			IsRead:    n.IsRead,
			Metadata:  n.Metadata,
			CreatedAt: n.CreatedAt,
		}
	}
	return views, nil
}

// MarkRead only touches the caller's own notifications: the recipient scoping
// happens in the store.
func (q *notificationQueriesImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return q.reader.MarkRead(ctx, userID, notificationID)
}
