package model

import "time"

// NotificationState tracks outbox delivery progress.
type NotificationState string

const (
	NotificationPending NotificationState = "pending"
	NotificationSending NotificationState = "sending"
	NotificationSent    NotificationState = "sent"
	NotificationFailed  NotificationState = "failed"
)

// Notification is an e-mail message about an order.
type Notification struct {
	ID        int64
	OrderID   int64
	Recipient string
	Subject   string
	Body      string
	State     NotificationState
	Attempts  int
	LastError *string
	ClaimedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
