package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceOrderFn     func(context.Context, model.Actor, model.OrderInput, []model.ProductInput) (*model.PurchaseOrder, error)
	OrdersFn         func(context.Context, model.Actor, string) ([]model.OrderSummary, error)
	OrderDetailsFn   func(context.Context, model.Actor, int64) (*model.OrderDetails, error)
	HistoryFn        func(context.Context, model.Actor, int64) ([]model.StatusLog, error)
	AddProductFn     func(context.Context, model.Actor, int64, model.ProductInput) (*model.Product, error)
	SoftDeleteFn     func(context.Context, model.Actor, int64) error
	RestoreAsDraftFn func(context.Context, model.Actor, int64) error
	StatusesFn       func(context.Context) ([]model.StatusInfo, error)
}

func (s OrderFacadeStub) PlaceOrder(ctx context.Context, actor model.Actor, input model.OrderInput, items []model.ProductInput) (*model.PurchaseOrder, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, actor, input, items)
	}
	return &model.PurchaseOrder{ID: 1, UserID: actor.UserID, Status: model.StatusOrdered}, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Actor, tab string) ([]model.OrderSummary, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, tab)
	}
	return []model.OrderSummary{{Order: model.PurchaseOrder{ID: 1, UserID: actor.UserID, Status: model.StatusOrdered}}}, nil
}

func (s OrderFacadeStub) OrderDetails(ctx context.Context, actor model.Actor, id int64) (*model.OrderDetails, error) {
	if s.OrderDetailsFn != nil {
		return s.OrderDetailsFn(ctx, actor, id)
	}
	return &model.OrderDetails{Order: model.PurchaseOrder{ID: id, UserID: actor.UserID, Status: model.StatusOrdered}}, nil
}

func (s OrderFacadeStub) History(ctx context.Context, actor model.Actor, id int64) ([]model.StatusLog, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, actor, id)
	}
	return []model.StatusLog{{ID: 1, OrderID: id, Status: model.StatusOrdered, CreatedAt: time.Unix(0, 0)}}, nil
}

func (s OrderFacadeStub) AddProduct(ctx context.Context, actor model.Actor, id int64, item model.ProductInput) (*model.Product, error) {
	if s.AddProductFn != nil {
		return s.AddProductFn(ctx, actor, id, item)
	}
	return &model.Product{ID: 1, OrderID: &id, UserID: actor.UserID, ProductLink: item.ProductLink}, nil
}

func (s OrderFacadeStub) SoftDelete(ctx context.Context, actor model.Actor, id int64) error {
	if s.SoftDeleteFn != nil {
		return s.SoftDeleteFn(ctx, actor, id)
	}
	return nil
}

func (s OrderFacadeStub) RestoreAsDraft(ctx context.Context, actor model.Actor, id int64) error {
	if s.RestoreAsDraftFn != nil {
		return s.RestoreAsDraftFn(ctx, actor, id)
	}
	return nil
}

func (s OrderFacadeStub) Statuses(ctx context.Context) ([]model.StatusInfo, error) {
	if s.StatusesFn != nil {
		return s.StatusesFn(ctx)
	}
	return model.Statuses(), nil
}

// AdminFacadeStub simulates administrator operations.
type AdminFacadeStub struct {
	ChangeStatusFn       func(context.Context, model.Actor, int64, model.Status) error
	UpdateAdminCommentFn func(context.Context, model.Actor, int64, string) error
}

func (s AdminFacadeStub) ChangeStatus(ctx context.Context, actor model.Actor, id int64, status model.Status) error {
	if s.ChangeStatusFn != nil {
		return s.ChangeStatusFn(ctx, actor, id, status)
	}
	return nil
}

func (s AdminFacadeStub) UpdateAdminComment(ctx context.Context, actor model.Actor, id int64, comment string) error {
	if s.UpdateAdminCommentFn != nil {
		return s.UpdateAdminCommentFn(ctx, actor, id, comment)
	}
	return nil
}

// HealthCheckerStub reports configured storage health.
type HealthCheckerStub struct {
	Err error
}

func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

// TrackerFacadeStub aggregates facade dependencies for HTTP layer tests.
type TrackerFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	AdminFacadeStub
}

// SentMessage is a message captured by NotifierStub.
type SentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

// NotifierStub records sent messages and can fail on demand.
type NotifierStub struct {
	mu     sync.Mutex
	Sent   []SentMessage
	Err    error
	SendFn func(context.Context, string, string, string) error
}

func (n *NotifierStub) Send(ctx context.Context, recipient, subject, body string) error {
	if n.SendFn != nil {
		if err := n.SendFn(ctx, recipient, subject, body); err != nil {
			return err
		}
	} else if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, SentMessage{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of captured messages.
func (n *NotifierStub) Messages() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentMessage(nil), n.Sent...)
}

// FailCall stores information about FailNotification invocations.
type FailCall struct {
	ID          int64
	RelayID     string
	Reason      string
	MaxAttempts int
}

// RelayFacadeStub mimics relay interactions with the tracker facade.
type RelayFacadeStub struct {
	Batches    [][]model.Notification
	ClaimFn    func(context.Context, string, int, time.Time) ([]model.Notification, error)
	RenewFn    func(context.Context, int64, string) error
	DeliverFn  func(context.Context, model.Notification) error
	CompleteFn func(context.Context, int64, string) error
	Renewed    []int64
	Delivered  []int64
	Completed  []int64
	Failed     []FailCall
	RelayIDs   []string
	mu         sync.Mutex
	claimCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *RelayFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *RelayFacadeStub) Unlock() { s.mu.Unlock() }

// ClaimNotifications returns batches from configured queue.
func (s *RelayFacadeStub) ClaimNotifications(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error) {
	s.mu.Lock()
	s.RelayIDs = append(s.RelayIDs, relayID)
	s.mu.Unlock()
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, relayID, limit, staleBefore)
	}
	call := atomic.AddInt32(&s.claimCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

func (s *RelayFacadeStub) RenewNotification(ctx context.Context, id int64, relayID string) error {
	if s.RenewFn != nil {
		if err := s.RenewFn(ctx, id, relayID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Renewed = append(s.Renewed, id)
	return nil
}

func (s *RelayFacadeStub) DeliverNotification(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	s.Delivered = append(s.Delivered, n.ID)
	s.mu.Unlock()
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, n)
	}
	return nil
}

func (s *RelayFacadeStub) CompleteNotification(ctx context.Context, id int64, relayID string) error {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, id, relayID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, id)
	return nil
}

func (s *RelayFacadeStub) FailNotification(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, FailCall{ID: id, RelayID: relayID, Reason: reason, MaxAttempts: maxAttempts})
	return nil
}
