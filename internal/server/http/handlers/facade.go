package handlers

import (
	"context"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
	Actor(ctx context.Context, userID int64) (model.Actor, error)
	Profile(ctx context.Context, actor model.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Actor, input model.ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, actor model.Actor, change model.PasswordChange) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, actor model.Actor, input model.OrderInput, items []model.ProductInput) (*model.PurchaseOrder, error)
	Orders(ctx context.Context, actor model.Actor, tab string) ([]model.OrderSummary, error)
	OrderDetails(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetails, error)
	History(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusLog, error)
	AddProduct(ctx context.Context, actor model.Actor, orderID int64, item model.ProductInput) (*model.Product, error)
	SoftDelete(ctx context.Context, actor model.Actor, orderID int64) error
	RestoreAsDraft(ctx context.Context, actor model.Actor, orderID int64) error
	Statuses(ctx context.Context) ([]model.StatusInfo, error)
}

// AdminFacade provides superuser operations.
type AdminFacade interface {
	ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, status model.Status) error
	UpdateAdminComment(ctx context.Context, actor model.Actor, orderID int64, comment string) error
}

// TrackerFacade aggregates the full set of operations used across handlers.
type TrackerFacade interface {
	AuthFacade
	OrderFacade
	AdminFacade
}
