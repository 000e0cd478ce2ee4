package usecase

import (
	"context"
	"time"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
)

// NotificationUseCase delivers outbox notifications.
type NotificationUseCase struct {
	outbox   repository.NotificationRepository
	notifier Notifier
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(factory repository.Factory, notifier Notifier) *NotificationUseCase {
	return &NotificationUseCase{outbox: factory.Notifications(), notifier: notifier}
}

// Claim reserves a batch of pending notifications for relay.
func (u *NotificationUseCase) Claim(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error) {
	return u.outbox.ClaimBatch(ctx, relayID, limit, staleBefore)
}

// Deliver sends a claimed notification.
func (u *NotificationUseCase) Deliver(ctx context.Context, n model.Notification) error {
	return u.notifier.Send(ctx, n.Recipient, n.Subject, n.Body)
}

// Renew confirms relayID still owns the notification and extends its lease.
func (u *NotificationUseCase) Renew(ctx context.Context, id int64, relayID string) error {
	return u.outbox.Renew(ctx, id, relayID)
}

// Complete marks notification as sent.
func (u *NotificationUseCase) Complete(ctx context.Context, id int64, relayID string) error {
	return u.outbox.MarkSent(ctx, id, relayID)
}

// Fail records a delivery failure, giving up after maxAttempts.
func (u *NotificationUseCase) Fail(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error {
	return u.outbox.MarkFailed(ctx, id, relayID, reason, maxAttempts)
}
