package model

import "time"

// StatusLog is an append-only record of an order entering a status.
type StatusLog struct {
	ID        int64
	OrderID   int64
	Status    Status
	CreatedAt time.Time
}

// StatusTransition describes an observed status change.
type StatusTransition struct {
	OrderID    int64
	OwnerID    int64
	OwnerEmail string
	From       Status
	To         Status
	Log        StatusLog
}
