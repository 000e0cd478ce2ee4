package app

import (
	"context"
	"time"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/usecase"
)

type TrackerFacade struct {
	auth          *usecase.AuthUseCase
	lifecycle     *usecase.LifecycleUseCase
	notifications *usecase.NotificationUseCase
}

func NewTrackerFacade(auth *usecase.AuthUseCase, lifecycle *usecase.LifecycleUseCase, notifications *usecase.NotificationUseCase) *TrackerFacade {
	return &TrackerFacade{auth: auth, lifecycle: lifecycle, notifications: notifications}
}

func (f *TrackerFacade) Register(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password)
	return token, err
}

func (f *TrackerFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *TrackerFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *TrackerFacade) Actor(ctx context.Context, userID int64) (model.Actor, error) {
	return f.auth.Actor(ctx, userID)
}

func (f *TrackerFacade) Profile(ctx context.Context, actor model.Actor) (*model.User, error) {
	return f.auth.GetByID(ctx, actor.UserID)
}

func (f *TrackerFacade) UpdateProfile(ctx context.Context, actor model.Actor, input model.ProfileInput) (*model.User, error) {
	return f.auth.UpdateProfile(ctx, actor, input)
}

func (f *TrackerFacade) ChangePassword(ctx context.Context, actor model.Actor, change model.PasswordChange) error {
	return f.auth.ChangePassword(ctx, actor, change)
}

// EnsureSuperuser bootstraps the administrator account.
func (f *TrackerFacade) EnsureSuperuser(ctx context.Context, email, password string) error {
	_, err := f.auth.EnsureSuperuser(ctx, email, password)
	return err
}

func (f *TrackerFacade) PlaceOrder(ctx context.Context, actor model.Actor, input model.OrderInput, items []model.ProductInput) (*model.PurchaseOrder, error) {
	return f.lifecycle.PlaceOrder(ctx, actor, input, items)
}

func (f *TrackerFacade) Orders(ctx context.Context, actor model.Actor, tab string) ([]model.OrderSummary, error) {
	return f.lifecycle.OrdersForTab(ctx, actor, tab)
}

func (f *TrackerFacade) OrderDetails(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetails, error) {
	return f.lifecycle.OrderDetails(ctx, actor, orderID)
}

func (f *TrackerFacade) History(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusLog, error) {
	return f.lifecycle.History(ctx, actor, orderID)
}

func (f *TrackerFacade) AddProduct(ctx context.Context, actor model.Actor, orderID int64, item model.ProductInput) (*model.Product, error) {
	return f.lifecycle.AddProduct(ctx, actor, orderID, item)
}

func (f *TrackerFacade) SoftDelete(ctx context.Context, actor model.Actor, orderID int64) error {
	return f.lifecycle.SoftDelete(ctx, actor, orderID)
}

func (f *TrackerFacade) RestoreAsDraft(ctx context.Context, actor model.Actor, orderID int64) error {
	return f.lifecycle.RestoreAsDraft(ctx, actor, orderID)
}

func (f *TrackerFacade) Statuses(ctx context.Context) ([]model.StatusInfo, error) {
	return f.lifecycle.Statuses(ctx)
}

func (f *TrackerFacade) ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, status model.Status) error {
	return f.lifecycle.ChangeStatus(ctx, actor, orderID, status)
}

func (f *TrackerFacade) UpdateAdminComment(ctx context.Context, actor model.Actor, orderID int64, comment string) error {
	return f.lifecycle.UpdateAdminComment(ctx, actor, orderID, comment)
}

func (f *TrackerFacade) ClaimNotifications(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error) {
	return f.notifications.Claim(ctx, relayID, limit, staleBefore)
}

func (f *TrackerFacade) DeliverNotification(ctx context.Context, n model.Notification) error {
	return f.notifications.Deliver(ctx, n)
}

func (f *TrackerFacade) RenewNotification(ctx context.Context, id int64, relayID string) error {
	return f.notifications.Renew(ctx, id, relayID)
}

func (f *TrackerFacade) CompleteNotification(ctx context.Context, id int64, relayID string) error {
	return f.notifications.Complete(ctx, id, relayID)
}

func (f *TrackerFacade) FailNotification(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error {
	return f.notifications.Fail(ctx, id, relayID, reason, maxAttempts)
}
