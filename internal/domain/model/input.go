package model

// OrderInput carries raw order attributes as submitted by a client.
type OrderInput struct {
	ShippingCost string `field:"shipping_cost"`
	Coupon       string `field:"coupon"`
	Discount     string `field:"discount"`
	UserComment  string `field:"user_comment"`
	IsDraft      bool   `field:"is_draft"`
}

// ProfileInput carries editable account details.
type ProfileInput struct {
	Email     string
	FirstName string
	LastName  string
}

// PasswordChange carries the current password and the requested replacement.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

// ProductInput carries raw product attributes as submitted by a client.
// A nil DiscountInShop means the field was absent.
type ProductInput struct {
	ShopLink       string  `field:"shop_link"`
	ProductLink    string  `field:"product_link" validate:"required"`
	VendorCode     string  `field:"vendor_code"`
	Name           string  `field:"name"`
	Color          string  `field:"color" validate:"required"`
	Size           string  `field:"size" validate:"required"`
	Quantity       string  `field:"quantity" validate:"required"`
	Price          string  `field:"price" validate:"required"`
	DiscountCode   string  `field:"discount_code"`
	DiscountInShop *string `field:"discount_in_shop" validate:"required"`
	Note           string  `field:"note"`
}
