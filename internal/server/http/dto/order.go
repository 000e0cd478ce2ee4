package dto

import "time"

// ProductRequest describes a product line in order forms.
type ProductRequest struct {
	ShopLink       string `json:"shop_link"`
	ProductLink    string `json:"product_link"`
	VendorCode     string `json:"vendor_code"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	Quantity       Value  `json:"quantity"`
	Price          Value  `json:"price"`
	DiscountCode   string `json:"discount_code"`
	DiscountInShop *Value `json:"discount_in_shop"`
	Note           string `json:"note"`
}

// PlaceOrderRequest describes the new order form.
type PlaceOrderRequest struct {
	ShippingCost Value            `json:"shipping_cost"`
	Coupon       string           `json:"coupon"`
	Discount     Value            `json:"discount"`
	UserComment  string           `json:"user_comment"`
	IsDraft      bool             `json:"is_draft"`
	Products     []ProductRequest `json:"products"`
}

// StatusChangeRequest moves an order to status ordinal or, when set, to the named status.
type StatusChangeRequest struct {
	Status int16  `json:"status"`
	Name   string `json:"name"`
}

// AdminCommentRequest replaces internal order comment.
type AdminCommentRequest struct {
	AdminComment string `json:"admin_comment"`
}

// OrderCreatedResponse is returned after an order is placed.
type OrderCreatedResponse struct {
	ID         int64  `json:"id"`
	Status     int16  `json:"status"`
	StatusName string `json:"status_name"`
}

// OrderResponse describes an order listing row.
type OrderResponse struct {
	ID                int64     `json:"id"`
	Status            int16     `json:"status"`
	StatusName        string    `json:"status_name"`
	StatusDescription string    `json:"status_description"`
	ShippingCost      string    `json:"shipping_cost"`
	Fee               string    `json:"fee"`
	Coupon            string    `json:"coupon"`
	Discount          string    `json:"discount"`
	UserComment       string    `json:"user_comment"`
	AdminComment      string    `json:"admin_comment,omitempty"`
	Archived          bool      `json:"archived"`
	ProductQty        int       `json:"product_qty"`
	ComplexPrice      string    `json:"complex_price"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProductResponse describes a stored product.
type ProductResponse struct {
	ID              int64  `json:"id"`
	ShopLink        string `json:"shop_link"`
	ShopLinkTrimmed string `json:"shop_link_trimmed"`
	ProductLink     string `json:"product_link"`
	VendorCode      string `json:"vendor_code"`
	Name            string `json:"name"`
	Color           string `json:"color"`
	Size            string `json:"size"`
	Quantity        int    `json:"quantity"`
	Price           string `json:"price"`
	DiscountCode    string `json:"discount_code"`
	DiscountInShop  string `json:"discount_in_shop"`
	SumPrice        string `json:"sum_price"`
	Note            string `json:"note"`
}

// StatusLogResponse is one history entry.
type StatusLogResponse struct {
	Status            int16     `json:"status"`
	StatusName        string    `json:"status_name"`
	StatusDescription string    `json:"status_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// OrderDetailsResponse is an order with products and history.
type OrderDetailsResponse struct {
	OrderResponse
	Products []ProductResponse   `json:"products"`
	History  []StatusLogResponse `json:"history"`
}

// StatusResponse is a catalogue entry.
type StatusResponse struct {
	ID          int16  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
