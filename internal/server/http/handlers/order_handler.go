package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/dto"
)

const moneyPlaces = 2

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := model.OrderInput{
		ShippingCost: req.ShippingCost.String(),
		Coupon:       req.Coupon,
		Discount:     req.Discount.String(),
		UserComment:  req.UserComment,
		IsDraft:      req.IsDraft,
	}
	items := make([]model.ProductInput, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, toProductInput(p))
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentActor(c), input, items)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderCreatedResponse{
		ID:         order.ID,
		Status:     int16(order.Status),
		StatusName: order.Status.String(),
	})
}

// List handles GET /api/orders?tab=.
func (h *OrderHandler) List(c *gin.Context) {
	summaries, err := h.facade.Orders(c.Request.Context(), CurrentActor(c), c.Query("tab"))
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, toOrderResponse(s.Order, s.ProductQty, s.ComplexPrice.StringFixed(moneyPlaces)))
	}
	c.JSON(http.StatusOK, response)
}

// Details handles GET /api/orders/:id.
func (h *OrderHandler) Details(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	details, err := h.facade.OrderDetails(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.OrderDetailsResponse{
		OrderResponse: toOrderResponse(details.Order, details.ProductQty(), details.ComplexPrice.StringFixed(moneyPlaces)),
		Products:      make([]dto.ProductResponse, 0, len(details.Products)),
		History:       toHistoryResponse(details.History),
	}
	for _, p := range details.Products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	history, err := h.facade.History(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryResponse(history))
}

// AddProduct handles POST /api/orders/:id/products.
func (h *OrderHandler) AddProduct(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.facade.AddProduct(c.Request.Context(), CurrentActor(c), id, toProductInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Delete handles POST /api/orders/:id/delete.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.facade.SoftDelete(c.Request.Context(), CurrentActor(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore handles POST /api/orders/:id/restore.
func (h *OrderHandler) Restore(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.facade.RestoreAsDraft(c.Request.Context(), CurrentActor(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Statuses handles GET /api/statuses.
func (h *OrderHandler) Statuses(c *gin.Context) {
	statuses, err := h.facade.Statuses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.StatusResponse, 0, len(statuses))
	for _, st := range statuses {
		resp = append(resp, dto.StatusResponse{ID: int16(st.ID), Name: st.Name, Description: st.Description})
	}
	c.JSON(http.StatusOK, resp)
}

func toProductInput(p dto.ProductRequest) model.ProductInput {
	return model.ProductInput{
		ShopLink:       p.ShopLink,
		ProductLink:    p.ProductLink,
		VendorCode:     p.VendorCode,
		Name:           p.Name,
		Color:          p.Color,
		Size:           p.Size,
		Quantity:       p.Quantity.String(),
		Price:          p.Price.String(),
		DiscountCode:   p.DiscountCode,
		DiscountInShop: dto.Optional(p.DiscountInShop),
		Note:           p.Note,
	}
}

func toOrderResponse(order model.PurchaseOrder, productQty int, complexPrice string) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                order.ID,
		Status:            int16(order.Status),
		StatusName:        order.Status.String(),
		StatusDescription: order.Status.Description(),
		ShippingCost:      order.ShippingCost.StringFixed(moneyPlaces),
		Fee:               order.Fee.StringFixed(moneyPlaces),
		Coupon:            order.Coupon,
		Discount:          order.Discount.StringFixed(moneyPlaces),
		UserComment:       order.UserComment,
		AdminComment:      order.AdminComment,
		Archived:          order.Archived(),
		ProductQty:        productQty,
		ComplexPrice:      complexPrice,
		CreatedAt:         order.CreatedAt,
	}
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		ShopLink:        p.ShopLink,
		ShopLinkTrimmed: p.ShopLinkTrimmed(),
		ProductLink:     p.ProductLink,
		VendorCode:      p.VendorCode,
		Name:            p.Name,
		Color:           p.Color,
		Size:            p.Size,
		Quantity:        p.Quantity,
		Price:           p.Price.StringFixed(moneyPlaces),
		DiscountCode:    p.DiscountCode,
		DiscountInShop:  p.DiscountInShop.StringFixed(moneyPlaces),
		SumPrice:        p.SumPrice().StringFixed(moneyPlaces),
		Note:            p.Note,
	}
}

func toHistoryResponse(history []model.StatusLog) []dto.StatusLogResponse {
	resp := make([]dto.StatusLogResponse, 0, len(history))
	for _, l := range history {
		resp = append(resp, dto.StatusLogResponse{
			Status:            int16(l.Status),
			StatusName:        l.Status.String(),
			StatusDescription: l.Status.Description(),
			CreatedAt:         l.CreatedAt,
		})
	}
	return resp
}
