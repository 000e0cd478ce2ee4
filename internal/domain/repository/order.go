package repository

import (
	"context"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// NotificationWriter enqueues notifications within an ongoing transaction.
type NotificationWriter interface {
	Enqueue(ctx context.Context, notifications ...model.Notification) error
}

// TransitionFunc runs inside the status change transaction.
// A returned error rolls back the status update and its log entry.
type TransitionFunc func(ctx context.Context, transition model.StatusTransition, outbox NotificationWriter) error

// OrderRepository describes persistence operations with purchase orders.
type OrderRepository interface {
	// Create stores order, its products and the initial status log entry atomically.
	Create(ctx context.Context, order model.PurchaseOrder, products []model.Product) (*model.PurchaseOrder, error)
	GetByID(ctx context.Context, id int64) (*model.PurchaseOrder, error)
	ListByUser(ctx context.Context, userID int64, statuses []model.Status) ([]model.PurchaseOrder, error)
	// TransitionStatus compares persisted status with the requested one and, when they differ,
	// updates the order, appends a log entry and invokes onChange in one transaction.
	// A nil transition means the status was already set.
	TransitionStatus(ctx context.Context, orderID int64, status model.Status, onChange TransitionFunc) (*model.StatusTransition, error)
	UpdateAdminComment(ctx context.Context, orderID int64, comment string) error
}

// ProductRepository describes persistence operations with order products.
type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.Product, error)
	ListByOrders(ctx context.Context, orderIDs []int64) (map[int64][]model.Product, error)
}

// StatusLogRepository gives read access to the status history.
type StatusLogRepository interface {
	ListByOrder(ctx context.Context, orderID int64) ([]model.StatusLog, error)
}

// StatusRepository exposes the persisted status catalogue.
type StatusRepository interface {
	List(ctx context.Context) ([]model.StatusInfo, error)
}
