package repository

import (
	"context"
	"time"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// NotificationRepository manages the notification outbox.
type NotificationRepository interface {
	// ClaimBatch locks pending notifications (and stale claims older than staleBefore) for relayID.
	ClaimBatch(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error)
	// Renew extends the claim of relayID, failing with ErrClaimLost when another relay took the row.
	Renew(ctx context.Context, id int64, relayID string) error
	MarkSent(ctx context.Context, id int64, relayID string) error
	MarkFailed(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error
}
