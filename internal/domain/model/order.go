package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder aggregates products a user buys in third-party shops.
type PurchaseOrder struct {
	ID           int64
	UserID       int64
	Status       Status
	ShippingCost decimal.Decimal
	Fee          decimal.Decimal
	Coupon       string
	Discount     decimal.Decimal
	UserComment  string
	AdminComment string
	CreatedAt    time.Time
}

// Archived reports whether order is presented as read-only.
func (o PurchaseOrder) Archived() bool {
	return o.Status.Archived()
}

// OwnedBy reports whether actor may read and modify the order.
func (o PurchaseOrder) OwnedBy(actor Actor) bool {
	return actor.IsSuperuser || o.UserID == actor.UserID
}

// ItemsTotal sums line totals of products.
func ItemsTotal(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.SumPrice())
	}
	return total
}

// RawComplexPrice is products total plus shipping and fee minus discount.
func (o PurchaseOrder) RawComplexPrice(products []Product) decimal.Decimal {
	return ItemsTotal(products).Add(o.ShippingCost).Add(o.Fee).Sub(o.Discount)
}

// OrderDetails is an order with its products and history.
type OrderDetails struct {
	Order        PurchaseOrder
	Products     []Product
	History      []StatusLog
	ComplexPrice decimal.Decimal
}

// ProductQty returns number of products in the order.
func (d OrderDetails) ProductQty() int {
	return len(d.Products)
}

// OrderSummary is a listing row for an order.
type OrderSummary struct {
	Order        PurchaseOrder
	ProductQty   int
	ComplexPrice decimal.Decimal
}
