package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
)

// DiscountPolicy controls how an order discount exceeding its total is treated.
type DiscountPolicy string

const (
	// DiscountAllow keeps the raw total, which may become negative.
	DiscountAllow DiscountPolicy = "allow"
	// DiscountClamp reports negative totals as zero.
	DiscountClamp DiscountPolicy = "clamp"
	// DiscountReject refuses to place such orders.
	DiscountReject DiscountPolicy = "reject"
)

// ParseDiscountPolicy resolves policy name, empty meaning allow.
func ParseDiscountPolicy(name string) (DiscountPolicy, error) {
	switch p := DiscountPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return DiscountAllow, nil
	case DiscountAllow, DiscountClamp, DiscountReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown discount policy %q", name)
	}
}

// PricingPolicy computes order totals.
type PricingPolicy struct {
	discount DiscountPolicy
}

// NewPricingPolicy constructs PricingPolicy.
func NewPricingPolicy(discount DiscountPolicy) PricingPolicy {
	if discount == "" {
		discount = DiscountAllow
	}
	return PricingPolicy{discount: discount}
}

// ComplexPrice returns the amount a customer pays for the order.
func (p PricingPolicy) ComplexPrice(order model.PurchaseOrder, products []model.Product) decimal.Decimal {
	total := order.RawComplexPrice(products)
	if p.discount == DiscountClamp && total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Check validates a new order against the discount policy.
func (p PricingPolicy) Check(order model.PurchaseOrder, products []model.Product) error {
	if p.discount != DiscountReject {
		return nil
	}
	if order.RawComplexPrice(products).IsNegative() {
		return fmt.Errorf("%w: discount exceeds order total", domainErrors.ErrValidation)
	}
	return nil
}
