package commands

import (
	"context"
	"fmt"
	"log/slog"

	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type FanoutParams struct {
	RecipientIDs []uuid.UUID    `json:"recipient_ids"`
	Type         string         `json:"type"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Priority     string         `json:"priority,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func (p FanoutParams) validate() error {
	if len(p.RecipientIDs) == 0 {
		return errs.Mark(errs.New("recipient_ids must not be empty"), ErrValidation)
	}
	for _, id := range p.RecipientIDs {
		if id == uuid.Nil {
			return errs.Mark(errs.New("recipient_ids must not contain the zero id"), ErrValidation)
		}
	}
	if p.Title == "" {
		return errs.Mark(errs.New("title is required"), ErrValidation)
	}
	if p.Message == "" {
		return errs.Mark(errs.New("message is required"), ErrValidation)
	}
	return nil
}

// Fanout delivers one notification to each recipient. Delivery is best
// effort per recipient: a failed delivery is logged and skipped, never
// aborting the rest of the loop. The result lists the recipients that were
// actually delivered, with a warning when any were not.
func (e *Engine) Fanout(ctx context.Context, p FanoutParams, principal user.Principal) (*MutationResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	if principal.Role == user.RoleViewer {
		return nil, ErrPermissionDenied
	}

	typ := notification.TypeAnnouncement
	if p.Type != "" {
		typ = notification.Type(p.Type)
	}

	priority := notification.PriorityNormal
	switch p.Priority {
	case "", string(notification.PriorityNormal):
	case string(notification.PriorityLow):
		priority = notification.PriorityLow
	case string(notification.PriorityHigh):
		priority = notification.PriorityHigh
	default:
		return nil, errs.Mark(errs.Newf("unknown priority %q", p.Priority), ErrValidation)
	}

	now := e.clock.Now()
	delivered := make([]uuid.UUID, 0, len(p.RecipientIDs))
	failed := 0
	for _, recipientID := range p.RecipientIDs {
		n := notification.New(recipientID, typ, p.Title, p.Message, priority, p.Metadata, now)
		if err := e.notifier.Create(ctx, n); err != nil {
			slog.Warn("notification delivery failed", "recipient", recipientID, "error", err)
			failed++
			continue
		}
		delivered = append(delivered, recipientID)
	}

	result := &MutationResult{
		Kind:       KindNotificationFanout,
		Recipients: delivered,
	}
	if failed > 0 {
		w := fmt.Sprintf("partial failure: %d of %d notifications were not delivered", failed, len(p.RecipientIDs))
		result.Warning = &w
	}
	return result, nil
}
