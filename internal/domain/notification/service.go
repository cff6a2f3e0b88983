package notification

import (
	"context"
)

type Service interface {
	// Dispatch persists the intents a workflow transition produced and
	// pushes/emails them as each recipient's channel allows. Called after
	// the transition has committed; failures are logged, never propagated
	// back into the workflow.
	Dispatch(ctx context.Context, senderID *string, intents []Intent)

	List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}
