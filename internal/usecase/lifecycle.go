package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
)

// Notifier delivers a single e-mail message.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NotifyMode selects how status change notifications are delivered.
type NotifyMode string

const (
	// NotifySync sends mail inside the status change transaction.
	NotifySync NotifyMode = "sync"
	// NotifyOutbox enqueues mail for the background relay.
	NotifyOutbox NotifyMode = "outbox"
)

// ParseNotifyMode resolves mode name, empty meaning sync.
func ParseNotifyMode(name string) (NotifyMode, error) {
	switch m := NotifyMode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return NotifySync, nil
	case NotifySync, NotifyOutbox:
		return m, nil
	default:
		return "", fmt.Errorf("unknown notify mode %q", name)
	}
}

// LifecycleOptions configures LifecycleUseCase.
type LifecycleOptions struct {
	Fee        decimal.Decimal
	AdminEmail string
	Mode       NotifyMode
	Pricing    PricingPolicy
}

// LifecycleUseCase manages purchase orders from creation to archive.
type LifecycleUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logs     repository.StatusLogRepository
	statuses repository.StatusRepository
	notifier Notifier
	opts     LifecycleOptions
	logger   *slog.Logger
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(
	factory repository.Factory,
	notifier Notifier,
	opts LifecycleOptions,
	logger *slog.Logger,
) *LifecycleUseCase {
	if opts.Mode == "" {
		opts.Mode = NotifySync
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleUseCase{
		orders:   factory.Orders(),
		products: factory.Products(),
		logs:     factory.StatusLogs(),
		statuses: factory.Statuses(),
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// CreateOrder stores an order without products.
func (u *LifecycleUseCase) CreateOrder(ctx context.Context, owner model.Actor, input model.OrderInput) (*model.PurchaseOrder, error) {
	return u.PlaceOrder(ctx, owner, input, nil)
}

// PlaceOrder validates every product and stores the order with its products and
// initial status log entry atomically. Nothing is stored when any product is invalid.
func (u *LifecycleUseCase) PlaceOrder(ctx context.Context, owner model.Actor, input model.OrderInput, items []model.ProductInput) (*model.PurchaseOrder, error) {
	order, err := u.newOrder(owner, input)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(items))
	for i, item := range items {
		p, err := ParseProduct(item)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		p.UserID = owner.UserID
		products = append(products, p)
	}

	if err := u.opts.Pricing.Check(order, products); err != nil {
		return nil, err
	}

	created, err := u.orders.Create(ctx, order, products)
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", created.ID),
		slog.Int64("user_id", owner.UserID),
		slog.String("status", created.Status.String()),
		slog.Int("products", len(products)),
	)
	return created, nil
}

func (u *LifecycleUseCase) newOrder(owner model.Actor, input model.OrderInput) (model.PurchaseOrder, error) {
	shipping, err := parseMoney("shipping_cost", input.ShippingCost)
	if err != nil {
		return model.PurchaseOrder{}, err
	}
	discount, err := parseMoney("discount", input.Discount)
	if err != nil {
		return model.PurchaseOrder{}, err
	}

	status := model.StatusOrdered
	if input.IsDraft {
		status = model.StatusDraft
	}

	return model.PurchaseOrder{
		UserID:       owner.UserID,
		Status:       status,
		ShippingCost: shipping,
		Fee:          u.opts.Fee,
		Coupon:       strings.TrimSpace(input.Coupon),
		Discount:     discount,
		UserComment:  strings.TrimSpace(input.UserComment),
	}, nil
}

// AddProduct appends a product to an existing order.
func (u *LifecycleUseCase) AddProduct(ctx context.Context, actor model.Actor, orderID int64, item model.ProductInput) (*model.Product, error) {
	order, err := u.accessibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Archived() && !actor.IsSuperuser {
		return nil, fmt.Errorf("%w: order %d is archived", domainErrors.ErrPermissionDenied, orderID)
	}

	p, err := ParseProduct(item)
	if err != nil {
		return nil, err
	}
	p.OrderID = &order.ID
	p.UserID = order.UserID

	existing, err := u.products.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if err := u.opts.Pricing.Check(*order, append(existing, p)); err != nil {
		return nil, err
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "product added",
		slog.Int64("order_id", order.ID),
		slog.Int64("product_id", created.ID),
	)
	return created, nil
}

// ChangeStatus moves an order to a new status on behalf of an administrator.
func (u *LifecycleUseCase) ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, status model.Status) error {
	if !actor.IsSuperuser {
		return domainErrors.ErrPermissionDenied
	}
	_, err := u.changeStatus(ctx, orderID, status)
	return err
}

// SoftDelete marks an order deleted.
func (u *LifecycleUseCase) SoftDelete(ctx context.Context, actor model.Actor, orderID int64) error {
	if _, err := u.accessibleOrder(ctx, actor, orderID); err != nil {
		return err
	}
	_, err := u.changeStatus(ctx, orderID, model.StatusDeleted)
	return err
}

// RestoreAsDraft moves an order back to draft.
func (u *LifecycleUseCase) RestoreAsDraft(ctx context.Context, actor model.Actor, orderID int64) error {
	if _, err := u.accessibleOrder(ctx, actor, orderID); err != nil {
		return err
	}
	_, err := u.changeStatus(ctx, orderID, model.StatusDraft)
	return err
}

// changeStatus performs the transition and notifies owner and administrator.
// Setting the current status again is a no-op without log entry or notification.
func (u *LifecycleUseCase) changeStatus(ctx context.Context, orderID int64, status model.Status) (*model.StatusTransition, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %d", domainErrors.ErrValidation, status)
	}

	transition, err := u.orders.TransitionStatus(ctx, orderID, status, u.notify)
	if err != nil {
		if errors.Is(err, domainErrors.ErrDelivery) {
			u.logger.WarnContext(ctx, "status change rolled back",
				slog.Int64("order_id", orderID),
				slog.String("status", status.String()),
				slog.Any("error", err),
			)
		}
		return nil, err
	}
	if transition == nil {
		return nil, nil
	}

	u.logger.InfoContext(ctx, "order status changed",
		slog.Int64("order_id", orderID),
		slog.String("from", transition.From.String()),
		slog.String("to", transition.To.String()),
		slog.String("notify_mode", string(u.opts.Mode)),
	)
	return transition, nil
}

func (u *LifecycleUseCase) notify(ctx context.Context, t model.StatusTransition, outbox repository.NotificationWriter) error {
	messages := u.composeNotifications(t)
	if u.opts.Mode == NotifyOutbox {
		return outbox.Enqueue(ctx, messages...)
	}
	for _, m := range messages {
		if err := u.notifier.Send(ctx, m.Recipient, m.Subject, m.Body); err != nil {
			if errors.Is(err, domainErrors.ErrDelivery) {
				return err
			}
			return fmt.Errorf("%w: %w", domainErrors.ErrDelivery, err)
		}
	}
	return nil
}

// composeNotifications builds the administrator message followed by the owner message.
func (u *LifecycleUseCase) composeNotifications(t model.StatusTransition) []model.Notification {
	subject := fmt.Sprintf("Order #%d: %s", t.OrderID, t.To.Description())
	admin := model.Notification{
		OrderID:   t.OrderID,
		Recipient: u.opts.AdminEmail,
		Subject:   subject,
		Body: fmt.Sprintf("Order #%d of %s changed status from %q to %q.",
			t.OrderID, t.OwnerEmail, t.From.Description(), t.To.Description()),
		State: model.NotificationPending,
	}
	owner := model.Notification{
		OrderID:   t.OrderID,
		Recipient: t.OwnerEmail,
		Subject:   subject,
		Body: fmt.Sprintf("Your order #%d changed status from %q to %q.",
			t.OrderID, t.From.Description(), t.To.Description()),
		State: model.NotificationPending,
	}
	return []model.Notification{admin, owner}
}

// OrdersForTab lists actor's orders whose status belongs to the tab, newest first.
func (u *LifecycleUseCase) OrdersForTab(ctx context.Context, actor model.Actor, tab string) ([]model.OrderSummary, error) {
	if tab == "" {
		tab = model.TabActive
	}
	statuses, ok := model.TabStatuses(tab)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tab %q", domainErrors.ErrNotFound, tab)
	}

	orders, err := u.orders.ListByUser(ctx, actor.UserID, statuses)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []model.OrderSummary{}, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	products, err := u.products.ListByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.OrderSummary, 0, len(orders))
	for _, o := range orders {
		items := products[o.ID]
		if !actor.IsSuperuser {
			o.AdminComment = ""
		}
		summaries = append(summaries, model.OrderSummary{
			Order:        o,
			ProductQty:   len(items),
			ComplexPrice: u.opts.Pricing.ComplexPrice(o, items),
		})
	}
	return summaries, nil
}

// OrderDetails returns order with products, history and computed total.
func (u *LifecycleUseCase) OrderDetails(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetails, error) {
	order, err := u.accessibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	products, err := u.products.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := u.logs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperuser {
		order.AdminComment = ""
	}
	return &model.OrderDetails{
		Order:        *order,
		Products:     products,
		History:      history,
		ComplexPrice: u.opts.Pricing.ComplexPrice(*order, products),
	}, nil
}

// History returns status log entries of the order in chronological order.
func (u *LifecycleUseCase) History(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusLog, error) {
	if _, err := u.accessibleOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return u.logs.ListByOrder(ctx, orderID)
}

// Statuses lists the status catalogue.
func (u *LifecycleUseCase) Statuses(ctx context.Context) ([]model.StatusInfo, error) {
	return u.statuses.List(ctx)
}

// UpdateAdminComment replaces the administrator note of an order.
func (u *LifecycleUseCase) UpdateAdminComment(ctx context.Context, actor model.Actor, orderID int64, comment string) error {
	if !actor.IsSuperuser {
		return domainErrors.ErrPermissionDenied
	}
	return u.orders.UpdateAdminComment(ctx, orderID, strings.TrimSpace(comment))
}

func (u *LifecycleUseCase) accessibleOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.PurchaseOrder, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(actor) {
		return nil, domainErrors.ErrPermissionDenied
	}
	return order, nil
}
