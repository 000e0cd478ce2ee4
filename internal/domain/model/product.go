package model

import "github.com/shopspring/decimal"

const shopLinkDisplayLen = 77

// Product is a line item purchased in an external shop.
type Product struct {
	ID             int64
	OrderID        *int64
	UserID         int64
	ShopLink       string
	ProductLink    string
	VendorCode     string
	Name           string
	Color          string
	Size           string
	Quantity       int
	Price          decimal.Decimal
	DiscountCode   string
	DiscountInShop decimal.Decimal
	Note           string
}

// SumPrice is quantity times price minus shop discount.
func (p Product) SumPrice() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))).Sub(p.DiscountInShop)
}

// ShopLinkTrimmed shortens long shop links for display.
func (p Product) ShopLinkTrimmed() string {
	runes := []rune(p.ShopLink)
	if len(runes) >= shopLinkDisplayLen {
		return string(runes[:shopLinkDisplayLen]) + "..."
	}
	return p.ShopLink
}
